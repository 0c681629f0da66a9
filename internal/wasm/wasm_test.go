package wasm

import "testing"

func TestEmptyFunction(t *testing.T) {
	m := &Module{}
	m.AddFunction(Function{Name: "f"}, false)

	got := m.WriteText()
	want := "(module\n  (func $f))"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFunctionWithParamsAndResult(t *testing.T) {
	rt := I32
	fn := Function{
		Name:       "my_func",
		Params:     []string{"arg_1", "arg_2"},
		ReturnType: &rt,
	}
	m := &Module{}
	m.AddFunction(fn, false)

	got := m.WriteText()
	want := "(module\n  (func $my_func (param $arg_1 i32) (param $arg_2 i32) (result i32)))"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestExportText(t *testing.T) {
	rt := I32
	m := &Module{}
	m.AddFunction(Function{Name: "add_em", Params: []string{"a", "b"}, ReturnType: &rt, Body: []Instr{
		{Kind: GetLocal, Name: "a"},
		{Kind: GetLocal, Name: "b"},
		{Kind: AddI32},
	}}, true)

	got := m.WriteText()
	if !contains(got, `(export "add_em" (func $add_em))`) {
		t.Fatalf("expected export text in output, got %q", got)
	}
}

func TestLocalsAreSortedLexicographically(t *testing.T) {
	fn := Function{Name: "f"}
	fn.AddLocal("zeta")
	fn.AddLocal("alpha")
	fn.AddLocal("mid")
	fn.SortLocals()

	want := []string{"alpha", "mid", "zeta"}
	if len(fn.Locals) != len(want) {
		t.Fatalf("got %v, want %v", fn.Locals, want)
	}
	for i := range want {
		if fn.Locals[i] != want[i] {
			t.Fatalf("got %v, want %v", fn.Locals, want)
		}
	}
}

func TestIfInstructionFormatting(t *testing.T) {
	rt := I32
	fn := Function{
		Name:       "choose",
		ReturnType: &rt,
		Body: []Instr{
			{
				Kind:       If,
				ResultType: I32,
				Condition:  []Instr{{Kind: ConstI32, I32: 1}},
				Then:       []Instr{{Kind: ConstI32, I32: 10}},
				Else:       []Instr{{Kind: ConstI32, I32: 20}},
			},
		},
	}
	m := &Module{}
	m.AddFunction(fn, false)

	got := m.WriteText()
	want := "(module\n" +
		"  (func $choose (result i32)\n" +
		"    i32.const 1\n" +
		"     (if (result i32)\n" +
		"      (then\n" +
		"        i32.const 10\n" +
		"      )\n" +
		"      (else\n" +
		"        i32.const 20\n" +
		"      ))))"
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestEmptyModule(t *testing.T) {
	m := &Module{}
	got := m.WriteText()
	if got != "(module)" {
		t.Fatalf("got %q, want %q", got, "(module)")
	}
}

func contains(haystack, needle string) bool {
	return len(haystack) >= len(needle) && indexOf(haystack, needle) >= 0
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}
