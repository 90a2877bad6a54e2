package lexer

import "testing"

func scanAll(source string) []Token {
	s := New(source)
	var toks []Token
	for {
		tok := s.NextToken()
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks
		}
	}
}

func TestScanPunctuationAndOperators(t *testing.T) {
	toks := scanAll(`() {} , ; + - * / // % ! != = == < <= > >=`)
	want := []TokenType{
		LeftParen, RightParen, LeftBrace, RightBrace, Comma, Semicolon,
		Plus, Minus, Star, Slash, SlashSlash, Percent,
		Bang, BangEqual, Equal, EqualEqual, Less, LessEqual, Greater, GreaterEqual,
		EOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Type, tt)
		}
	}
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	toks := scanAll(`and or fun print varX`)
	want := []TokenType{And, Or, Fun, Print, Identifier, EOF}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Type, tt)
		}
	}
}

func TestHashCommentsAreSkipped(t *testing.T) {
	toks := scanAll("var a = 1; # this is a comment\nvar b = 2;")
	for _, tok := range toks {
		if tok.Type == Error {
			t.Fatalf("unexpected error token: %s", tok.Lexeme)
		}
	}
}

func TestUnterminatedStringIsError(t *testing.T) {
	toks := scanAll(`"unterminated`)
	if toks[0].Type != Error {
		t.Fatalf("expected error token, got %v", toks[0].Type)
	}
}

func TestNumberLexemes(t *testing.T) {
	toks := scanAll(`1 2.5 100`)
	for i, want := range []string{"1", "2.5", "100"} {
		if toks[i].Type != Number || toks[i].Lexeme != want {
			t.Errorf("token %d: got (%v, %q), want (Number, %q)", i, toks[i].Type, toks[i].Lexeme, want)
		}
	}
}
