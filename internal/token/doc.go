// Package token defines lexical token kinds and trivia for the IDL.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Begin..End); for StringLit the quotes
//     are part of both.
//   - Comments (# ...) and whitespace are leading Trivia and never appear in
//     the main token stream.
//   - Every type name of the IDL is a keyword; TypeOf maps it to its
//     abi.Type.
package token
