package token

import (
	"nlib/internal/abi"
	"nlib/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsWord reports whether the token is an identifier or a keyword.
// Function and parameter names may reuse keywords (`i32 close(fd fd);`).
func (t Token) IsWord() bool {
	return t.Kind == Ident || t.Kind.IsKeyword()
}

// IsTypeStart reports whether the token can begin a (const-qualified) type.
func (t Token) IsTypeStart() bool {
	return t.Kind == KwConst || t.Kind.IsType()
}

// TypeOf returns the descriptor for a type keyword token.
func (t Token) TypeOf() (abi.Type, bool) {
	if !t.Kind.IsType() {
		return abi.Type{}, false
	}
	return abi.Lookup(t.Text)
}

// HasComment reports whether a comment precedes the token.
func (t Token) HasComment() bool {
	for _, tv := range t.Leading {
		if tv.Kind == TriviaComment {
			return true
		}
	}
	return false
}

// StringValue strips the quotes of a StringLit.
func (t Token) StringValue() string {
	if t.Kind != StringLit || len(t.Text) < 2 {
		return ""
	}
	return t.Text[1 : len(t.Text)-1]
}
