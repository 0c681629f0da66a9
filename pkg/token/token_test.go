package token

import "testing"

func TestLookupKeyword(t *testing.T) {
	cases := []struct {
		name string
		want Keyword
		ok   bool
	}{
		{"import", IMPORT, true},
		{"export", EXPORT, true},
		{"type", TYPE, true},
		{"fn", FN, true},
		{"if", IF, true},
		{"else", ELSE, true},
		{"notakeyword", 0, false},
	}

	for _, tc := range cases {
		got, ok := LookupKeyword(tc.name)
		if ok != tc.ok {
			t.Fatalf("LookupKeyword(%q) ok = %v, want %v", tc.name, ok, tc.ok)
		}
		if ok && got != tc.want {
			t.Fatalf("LookupKeyword(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestOperatorBindingPower(t *testing.T) {
	cases := []struct {
		op   Operator
		want int
	}{
		{PLUS, SumBP},
		{MINUS, SumBP},
		{MULTIPLY, ProductBP},
		{DIVIDE, ProductBP},
		{DOUBLEEQUALS, EqualsBP},
	}

	for _, tc := range cases {
		if got := tc.op.BindingPower(); got != tc.want {
			t.Errorf("%v.BindingPower() = %d, want %d", tc.op, got, tc.want)
		}
	}

	if ProductBP <= SumBP {
		t.Fatalf("product binding power must exceed sum binding power")
	}
	if EqualsBP <= ProductBP {
		t.Fatalf("equals binding power must exceed product binding power")
	}
	if PrefixBP <= EqualsBP {
		t.Fatalf("prefix binding power must exceed equals binding power")
	}
}

func TestTokenBindingPowerOnlyForBinOp(t *testing.T) {
	binop := Token{Type: BINOP, Op: MULTIPLY}
	if got := binop.BindingPower(); got != ProductBP {
		t.Fatalf("BINOP token BindingPower() = %d, want %d", got, ProductBP)
	}

	ident := Token{Type: IDENT, Literal: "x"}
	if got := ident.BindingPower(); got != LowestBP {
		t.Fatalf("IDENT token BindingPower() = %d, want %d", got, LowestBP)
	}
}
