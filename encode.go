package accounting

import (
	"encoding/xml"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/manuel-koch/accounting/date"
)

// Snapshot document version. Loading fails on a foreign major version; a
// missing version tag is tolerated as a legacy document.
const (
	docVersionMajor = 1
	docVersionMinor = 0
)

const savedAtFormat = "2006-01-02 15:04:05"

type xmlDatabase struct {
	XMLName      xml.Name        `xml:"database"`
	Meta         xmlMeta         `xml:"meta"`
	Accounts     xmlAccounts     `xml:"accounts"`
	Transactions xmlTransactions `xml:"transactions"`
}

type xmlMeta struct {
	Version *xmlVersion `xml:"version"`
	Saved   xmlSaved    `xml:"saved"`
}

type xmlVersion struct {
	Major int `xml:"major,attr"`
	Minor int `xml:"minor,attr"`
}

type xmlSaved struct {
	Datetime string `xml:"datetime,attr"`
}

type xmlAccounts struct {
	Accounts []xmlAccount `xml:"account"`
}

type xmlAccount struct {
	Name     string       `xml:"name,attr"`
	Type     string       `xml:"type,attr"`
	Children []xmlAccount `xml:"account"`
}

type xmlTransactions struct {
	Transactions []xmlTransaction `xml:"transaction"`
}

type xmlTransaction struct {
	Date  string    `xml:"date,attr"`
	Descr string    `xml:"descr,attr"`
	Items []xmlItem `xml:"item"`
}

type xmlItem struct {
	Descr     string `xml:"descr,attr"`
	Value     string `xml:"value,attr"`
	Confirmed string `xml:"confirmed,attr"`
	Account   string `xml:"account,attr"`
}

// Encode serializes the database as a versioned XML document. Transactions
// without items are skipped, they carry no bookable information.
func Encode(w io.Writer, db *Database) error {
	doc := xmlDatabase{
		Meta: xmlMeta{
			Version: &xmlVersion{Major: docVersionMajor, Minor: docVersionMinor},
			Saved:   xmlSaved{Datetime: time.Now().Format(savedAtFormat)},
		},
	}
	for _, root := range db.RootAccounts() {
		doc.Accounts.Accounts = append(doc.Accounts.Accounts, encodeAccount(root))
	}
	for t := range db.Transactions(nil) {
		if t.Len() == 0 {
			continue
		}
		xt := xmlTransaction{Date: t.Date().String(), Descr: t.Descr()}
		for it := range t.Items(nil) {
			xt.Items = append(xt.Items, xmlItem{
				Descr:     it.Descr(),
				Value:     it.Value().StringFixed(DefaultPrecision),
				Confirmed: encodeBool(it.Confirmed()),
				Account:   it.AccountFullName(),
			})
		}
		doc.Transactions.Transactions = append(doc.Transactions.Transactions, xt)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("could not encode database: %w", err)
	}
	return enc.Close()
}

func encodeAccount(a Account) xmlAccount {
	xa := xmlAccount{Name: a.Name(), Type: a.Type().String()}
	for _, child := range a.Children() {
		xa.Children = append(xa.Children, encodeAccount(child))
	}
	return xa
}

func encodeBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func decodeBool(s string) bool {
	switch strings.ToLower(s) {
	case "yes", "true":
		return true
	default:
		return false
	}
}

// Decode parses a database from a versioned XML document. On any error no
// database is returned, the caller never sees a partially loaded graph.
// Parsing runs in bulk-load mode with a single transaction sort at the end.
func Decode(r io.Reader) (*Database, error) {
	var doc xmlDatabase
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("could not parse database document: %w", err)
	}

	if v := doc.Meta.Version; v == nil {
		log.Printf("warning: database document has no version, assuming %d.%d", docVersionMajor, docVersionMinor)
	} else if v.Major != docVersionMajor {
		return nil, fmt.Errorf("%w: %d.%d", ErrIncompatibleVersion, v.Major, v.Minor)
	}

	db := NewDatabase()
	db.beginLoad()
	defer db.endLoad()

	for _, xa := range doc.Accounts.Accounts {
		if err := decodeAccount(db, Account{}, xa); err != nil {
			return nil, err
		}
	}
	for _, xt := range doc.Transactions.Transactions {
		on, err := date.Parse(xt.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid transaction date: %w", err)
		}
		t := db.NewTransaction(on, xt.Descr)
		db.AddTransaction(t)
		for _, xi := range xt.Items {
			value, err := Eval(xi.Value, DefaultPrecision)
			if err != nil {
				return nil, fmt.Errorf("invalid item value %q: %w", xi.Value, err)
			}
			acc, err := db.Lookup(xi.Account)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrUnknownAccount, xi.Account)
			}
			it := db.NewItem(xi.Descr, value, decodeBool(xi.Confirmed))
			t.AddItem(it)
			acc.AddItem(it)
		}
	}
	return db, nil
}

// decodeAccount attaches the parsed account below parent, or as a root when
// parent is the zero handle. Unrecognized type names degrade to Unknown, as
// legacy documents may carry them.
func decodeAccount(db *Database, parent Account, xa xmlAccount) error {
	typ, err := ParseAccountType(xa.Type)
	if err != nil {
		typ = Unknown
	}
	a, err := db.NewAccount(xa.Name, typ)
	if err != nil {
		return err
	}
	if parent.IsZero() {
		if !db.AddAccount(a) {
			return fmt.Errorf("%w: duplicate root account %q", ErrInvalidName, xa.Name)
		}
	} else if !parent.AddChild(a) {
		return fmt.Errorf("%w: duplicate account %q below %q", ErrInvalidName, xa.Name, parent.FullName())
	}
	for _, child := range xa.Children {
		if err := decodeAccount(db, a, child); err != nil {
			return err
		}
	}
	return nil
}
