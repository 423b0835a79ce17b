package accounting

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestEval(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"1,35-0,35+0.5", "1.50"},
		{"-1,35-0,2/-2", "-1.25"},
		{"-1,35-0,2*-0.5", "-1.25"},
		{"2*3-3*-2", "12.00"},
		{"2*3-3*2", "0.00"},
		{"2*3+3*-2", "0.00"},
		{"1.3+1.3", "2.60"},
		{"1.50 + 1.50", "3.00"},
		{"1.50 - 1.50", "0.00"},
		{"2 * 1.50", "3.00"},
		{"3 / 1.50", "2.00"},
		{"1 + 3 / 1.50", "3.00"},
		{"1 - 3 / 1.50", "-1.00"},
		{"2 * ( 1 + 1 )", "4.00"},
		{"2 * ( 1.3 + 1.5 )", "5.60"},
		{"((1+2)*3)", "9.00"},
		{"(1+2)*(3+4)", "21.00"},
		{"", "0.00"},
		{"42", "42.00"},
	}
	for _, tc := range tests {
		got, err := Eval(tc.expr, DefaultPrecision)
		if err != nil {
			t.Errorf("Eval(%q) unexpected error: %v", tc.expr, err)
			continue
		}
		if got.StringFixed(DefaultPrecision) != tc.want {
			t.Errorf("Eval(%q) = %s, want %s", tc.expr, got, tc.want)
		}
	}
}

func TestEvalErrors(t *testing.T) {
	for _, expr := range []string{"abc", "1+abc", "2/0", "1..2"} {
		if _, err := Eval(expr, DefaultPrecision); !errors.Is(err, ErrValueParse) {
			t.Errorf("Eval(%q) error = %v, want ErrValueParse", expr, err)
		}
	}
	if _, err := Eval("1", 5); !errors.Is(err, ErrValueParse) {
		t.Errorf("precision 5 error = %v, want ErrValueParse", err)
	}
	if _, err := Eval("1", -1); !errors.Is(err, ErrValueParse) {
		t.Errorf("precision -1 error = %v, want ErrValueParse", err)
	}
}

func TestEvalPrecision(t *testing.T) {
	got, err := Eval("1/3", 4)
	if err != nil {
		t.Fatalf("Eval(1/3) unexpected error: %v", err)
	}
	if got.StringFixed(4) != "0.3333" {
		t.Errorf("Eval(1/3, 4) = %s, want 0.3333", got)
	}
	got, err = Eval("1.5", 0)
	if err != nil {
		t.Fatalf("Eval(1.5, 0) unexpected error: %v", err)
	}
	// banker's rounding: 1.5 rounds to the even neighbour
	if got.StringFixed(0) != "2" {
		t.Errorf("Eval(1.5, 0) = %s, want 2", got)
	}
}

func TestToDecimal(t *testing.T) {
	if v, err := ToDecimal(3, DefaultPrecision); err != nil || v.StringFixed(2) != "3.00" {
		t.Errorf("ToDecimal(3) = %s, %v", v, err)
	}
	if v, err := ToDecimal(2.5, DefaultPrecision); err != nil || v.StringFixed(2) != "2.50" {
		t.Errorf("ToDecimal(2.5) = %s, %v", v, err)
	}
	if v, err := ToDecimal("2*(1.3+1.5)", DefaultPrecision); err != nil || v.StringFixed(2) != "5.60" {
		t.Errorf("ToDecimal(expr) = %s, %v", v, err)
	}
	if v, err := ToDecimal(decimal.RequireFromString("1.005"), DefaultPrecision); err != nil || v.StringFixed(2) != "1.00" {
		t.Errorf("ToDecimal(1.005) = %s, %v", v, err)
	}
	if _, err := ToDecimal("nope", DefaultPrecision); !errors.Is(err, ErrValueParse) {
		t.Errorf("ToDecimal(nope) error = %v, want ErrValueParse", err)
	}
}
