package token

import "nlib/internal/source"

type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaComment
)

func (k TriviaKind) String() string {
	switch k {
	case TriviaSpace:
		return "Space"
	case TriviaNewline:
		return "Newline"
	case TriviaComment:
		return "Comment"
	}
	return "TriviaKind(?)"
}

type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}
