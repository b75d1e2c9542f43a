package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents a word that is not a keyword.
	Ident
	// StringLit represents a quoted library name.
	StringLit

	// KwLibrary represents the 'library' keyword.
	KwLibrary
	// KwConst represents the 'const' qualifier.
	KwConst

	// type keywords; keep contiguous, IsType relies on the range.
	KwVoid
	KwI8
	KwI16
	KwI32
	KwI64
	KwIlong
	KwU1
	KwU8
	KwU16
	KwU32
	KwU64
	KwUlong
	KwF32
	KwF64
	KwFd
	KwFnptr
	KwString
	KwCplx
	KwPtr

	// Semicolon represents ';'.
	Semicolon
	// Comma represents ','.
	Comma
	// LParen represents '('.
	LParen
	// RParen represents ')'.
	RParen
)

var kindNames = [...]string{
	Invalid:   "Invalid",
	EOF:       "EOF",
	Ident:     "Ident",
	StringLit: "StringLit",
	KwLibrary: "KwLibrary",
	KwConst:   "KwConst",
	KwVoid:    "KwVoid",
	KwI8:      "KwI8",
	KwI16:     "KwI16",
	KwI32:     "KwI32",
	KwI64:     "KwI64",
	KwIlong:   "KwIlong",
	KwU1:      "KwU1",
	KwU8:      "KwU8",
	KwU16:     "KwU16",
	KwU32:     "KwU32",
	KwU64:     "KwU64",
	KwUlong:   "KwUlong",
	KwF32:     "KwF32",
	KwF64:     "KwF64",
	KwFd:      "KwFd",
	KwFnptr:   "KwFnptr",
	KwString:  "KwString",
	KwCplx:    "KwCplx",
	KwPtr:     "KwPtr",
	Semicolon: "Semicolon",
	Comma:     "Comma",
	LParen:    "LParen",
	RParen:    "RParen",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsType reports whether k is a type keyword.
func (k Kind) IsType() bool { return k >= KwVoid && k <= KwPtr }

// IsKeyword reports whether k is any reserved word.
func (k Kind) IsKeyword() bool { return k == KwLibrary || k == KwConst || k.IsType() }
