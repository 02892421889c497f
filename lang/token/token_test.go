package token

import "testing"

func TestTokenString(t *testing.T) {
	for tok := Token(0); tok < maxToken; tok++ {
		if tok.String() == "" {
			t.Errorf("missing string representation of token %d", tok)
		}
	}
}

func TestKeywordsRoundTrip(t *testing.T) {
	for word, tok := range Keywords {
		if got := tok.String(); got != word {
			t.Errorf("keyword %q: token %v stringifies to %q", word, tok, got)
		}
	}
}

func TestPrecedenceOrdering(t *testing.T) {
	if STAR.Precedence() <= PLUS.Precedence() {
		t.Errorf("STAR should bind tighter than PLUS")
	}
	if AND.Precedence() <= 0 || OR.Precedence() <= 0 {
		t.Errorf("AND/OR must have a precedence")
	}
	if OR.Precedence() >= AND.Precedence() {
		t.Errorf("OR should bind looser than AND")
	}
}
