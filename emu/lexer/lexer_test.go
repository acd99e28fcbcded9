package lexer

import "testing"

func tokens(t *testing.T, src string) []Token {
	t.Helper()
	l := New(src)
	var out []Token
	for {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("unexpected lex error: %v", err)
		}
		if tok.Kind == EOF {
			return out
		}
		out = append(out, tok)
	}
}

func TestLabelAndOpcode(t *testing.T) {
	toks := tokens(t, "loop: add ax, 2")
	want := []Kind{LABEL, OPCODE, NAME, COMMA, NUMBER}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %v want %v", i, toks[i].Kind, k)
		}
	}
	if toks[0].Text != "loop" {
		t.Errorf("label text: got %q", toks[0].Text)
	}
	if toks[1].Text != "ADD" {
		t.Errorf("opcode text: got %q", toks[1].Text)
	}
	if toks[4].Value != 2 {
		t.Errorf("number value: got %d", toks[4].Value)
	}
}

func TestNumericGrammar(t *testing.T) {
	cases := []struct {
		src  string
		want int
	}{
		{"0b101", 5},
		{"0o17", 15},
		{"017", 15},
		{"0x1F", 31},
		{"42", 42},
		{"-7", -7},
	}
	for _, c := range cases {
		toks := tokens(t, c.src)
		if len(toks) != 1 || toks[0].Kind != NUMBER {
			t.Fatalf("%s: expected single NUMBER token, got %+v", c.src, toks)
		}
		if toks[0].Value != c.want {
			t.Errorf("%s: got %d want %d", c.src, toks[0].Value, c.want)
		}
	}
}

func TestReference(t *testing.T) {
	toks := tokens(t, "[0x80]")
	if len(toks) != 1 || toks[0].Kind != REFERENCE || toks[0].Value != 0x80 {
		t.Fatalf("unexpected tokens: %+v", toks)
	}
}

func TestCommentsAndWhitespaceIgnored(t *testing.T) {
	toks := tokens(t, "  mov ax, 1  # load ax\nhalt")
	want := []Kind{OPCODE, NAME, COMMA, NUMBER, OPCODE}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
}

func TestNewlineAdvancesLine(t *testing.T) {
	l := New("mov\nadd")
	first, _ := l.Next()
	second, _ := l.Next()
	if first.Line != 1 {
		t.Errorf("first token line: got %d want 1", first.Line)
	}
	if second.Line != 2 {
		t.Errorf("second token line: got %d want 2", second.Line)
	}
}

func TestNameNotPromotedUnlessReserved(t *testing.T) {
	toks := tokens(t, "foo bar")
	for _, tok := range toks {
		if tok.Kind != NAME {
			t.Errorf("expected NAME, got %v", tok.Kind)
		}
	}
}

func TestIllegalCharacterFails(t *testing.T) {
	l := New("mov ax, @")
	for i := 0; i < 3; i++ {
		if _, err := l.Next(); err != nil {
			t.Fatalf("unexpected error on token %d: %v", i, err)
		}
	}
	_, err := l.Next()
	lexErr, ok := err.(*LexError)
	if !ok {
		t.Fatalf("expected *LexError, got %v", err)
	}
	if lexErr.Char != '@' || lexErr.Line != 1 {
		t.Errorf("unexpected LexError: %+v", lexErr)
	}
}

func TestLabelWithDotAndUnderscore(t *testing.T) {
	toks := tokens(t, "my.label_1: nop")
	if toks[0].Kind != LABEL || toks[0].Text != "my.label_1" {
		t.Errorf("unexpected label token: %+v", toks[0])
	}
}

func TestLabelWithLeadingDot(t *testing.T) {
	toks := tokens(t, ".loop: nop")
	if toks[0].Kind != LABEL || toks[0].Text != ".loop" {
		t.Errorf("unexpected label token: %+v", toks[0])
	}
}
