package scanner

import (
	"testing"

	"github.com/nova-lang/nova/lang/token"
)

func scanAll(t *testing.T, src string) []Token {
	t.Helper()
	s := New("test.nova", []byte(src))
	var toks []Token
	for {
		tok := s.Scan(func(pos token.Pos, msg string) {
			t.Fatalf("scan error at %v: %s", pos, msg)
		})
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return toks
}

func kinds(toks []Token) []token.Token {
	out := make([]token.Token, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestScanArithmetic(t *testing.T) {
	toks := scanAll(t, "val x = 10 + 2 * 3")
	got := kinds(toks)
	want := []token.Token{token.VAL, token.IDENT, token.EQ, token.INT, token.PLUS, token.INT, token.STAR, token.INT, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestScanOperators(t *testing.T) {
	toks := scanAll(t, "a?.b ?: c ?[0] |> f x..<y downTo z")
	got := kinds(toks)
	wantContains := []token.Token{token.SAFEDOT, token.ELVIS, token.SAFEINDEX, token.PIPEGT, token.DOTDOTLT, token.DOWNTO}
	for _, w := range wantContains {
		found := false
		for _, g := range got {
			if g == w {
				found = true
			}
		}
		if !found {
			t.Errorf("expected token %v in %v", w, got)
		}
	}
}

func TestScanStringWithEscapes(t *testing.T) {
	toks := scanAll(t, `"hello $name\n"`)
	if toks[0].Kind != token.STRING {
		t.Fatalf("expected STRING, got %v", toks[0].Kind)
	}
	if toks[0].Lit != "hello $name\n" {
		t.Fatalf("got %q", toks[0].Lit)
	}
}

func TestScanNumbers(t *testing.T) {
	toks := scanAll(t, "1 2L 3.14 1e10")
	got := kinds(toks)
	want := []token.Token{token.INT, token.LONG, token.FLOAT, token.FLOAT, token.EOF}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestScanKeywordsAndUnderscore(t *testing.T) {
	toks := scanAll(t, "fun class val var _ coroutineScope")
	got := kinds(toks)
	want := []token.Token{token.FUN, token.CLASS, token.VAL, token.VAR, token.UNDERSCORE, token.COROUTINESCOPE, token.EOF}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSkipsComments(t *testing.T) {
	toks := scanAll(t, "val x = 1 // comment\n/* block */ val y = 2")
	got := kinds(toks)
	want := []token.Token{token.VAL, token.IDENT, token.EQ, token.INT, token.VAL, token.IDENT, token.EQ, token.INT, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
