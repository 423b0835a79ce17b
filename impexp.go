package accounting

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"

	"github.com/manuel-koch/accounting/date"
)

// Entry is one bookable row produced by an importer: a dated amount with a
// description, destined for a single account.
type Entry struct {
	Date      date.Date
	Descr     string
	Value     decimal.Decimal
	Confirmed bool
}

// Import books the entries on the target account, one single-item
// transaction per entry. Booking goes through the regular mutation
// operations, so ordering and notifications behave exactly as manual edits
// do; entries sharing a date keep their given order.
func (db *Database) Import(target Account, entries []Entry) {
	for _, e := range entries {
		t := db.NewTransaction(e.Date, e.Descr)
		db.AddTransaction(t)
		it := db.NewItem(e.Descr, e.Value, e.Confirmed)
		t.AddItem(it)
		target.AddItem(it)
	}
}

// ReadTSV parses entries from tab separated lines of the form
//
//	date <TAB> description <TAB> value [<TAB> confirmed]
//
// Empty lines and lines starting with '#' are skipped. The value column
// accepts the same arithmetic expressions as manual entry.
func ReadTSV(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) < 3 {
			return nil, fmt.Errorf("line %d: expected at least 3 columns, got %d", lineno, len(cols))
		}
		on, err := date.Parse(strings.TrimSpace(cols[0]))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineno, err)
		}
		value, err := Eval(cols[2], DefaultPrecision)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineno, err)
		}
		entry := Entry{Date: on, Descr: strings.TrimSpace(cols[1]), Value: value}
		if len(cols) > 3 {
			entry.Confirmed = decodeBool(strings.TrimSpace(cols[3]))
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// JSONStatementSpec locates entry fields in a bank's JSON export. Entries
// addresses the list of raw entries in the document, the remaining paths are
// evaluated relative to one raw entry. Confirmed may be left empty.
type JSONStatementSpec struct {
	Entries   string
	Date      string
	Descr     string
	Value     string
	Confirmed string
}

// ReadJSON parses entries from a JSON statement using the spec's JSONPath
// expressions. Fields of an unexpected type fail with ErrTypeMismatch.
func ReadJSON(r io.Reader, spec JSONStatementSpec) ([]Entry, error) {
	var doc any
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("could not parse statement: %w", err)
	}
	jval, err := jsonpath.Get(spec.Entries, doc)
	if err != nil {
		return nil, fmt.Errorf("could not locate entries at %q: %w", spec.Entries, err)
	}
	// jsonpath may hand back a single object instead of a list of one.
	raws, ok := jval.([]any)
	if !ok {
		raws = []any{jval}
	}

	var entries []Entry
	for i, raw := range raws {
		entry, err := readJSONEntry(raw, spec)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func readJSONEntry(raw any, spec JSONStatementSpec) (Entry, error) {
	var entry Entry

	dateStr, err := jsonString(raw, spec.Date)
	if err != nil {
		return entry, err
	}
	if entry.Date, err = date.Parse(dateStr); err != nil {
		return entry, err
	}
	if entry.Descr, err = jsonString(raw, spec.Descr); err != nil {
		return entry, err
	}
	if entry.Value, err = jsonValue(raw, spec.Value); err != nil {
		return entry, err
	}
	if spec.Confirmed != "" {
		if entry.Confirmed, err = jsonBool(raw, spec.Confirmed); err != nil {
			return entry, err
		}
	}
	return entry, nil
}

func jsonField(raw any, path string) (any, error) {
	jval, err := jsonpath.Get(path, raw)
	if err != nil {
		return nil, fmt.Errorf("could not evaluate %q: %w", path, err)
	}
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	return jval, nil
}

func jsonString(raw any, path string) (string, error) {
	jval, err := jsonField(raw, path)
	if err != nil {
		return "", err
	}
	s, ok := jval.(string)
	if !ok {
		return "", fmt.Errorf("%w: %q is %T, want string", ErrTypeMismatch, path, jval)
	}
	return s, nil
}

func jsonBool(raw any, path string) (bool, error) {
	jval, err := jsonField(raw, path)
	if err != nil {
		return false, err
	}
	switch v := jval.(type) {
	case bool:
		return v, nil
	case string:
		return decodeBool(v), nil
	default:
		return false, fmt.Errorf("%w: %q is %T, want bool", ErrTypeMismatch, path, jval)
	}
}

func jsonValue(raw any, path string) (decimal.Decimal, error) {
	jval, err := jsonField(raw, path)
	if err != nil {
		return decimal.Zero, err
	}
	switch v := jval.(type) {
	case float64:
		return ToDecimal(v, DefaultPrecision)
	case string:
		return ToDecimal(v, DefaultPrecision)
	default:
		return decimal.Zero, fmt.Errorf("%w: %q is %T, want number or string", ErrTypeMismatch, path, jval)
	}
}
