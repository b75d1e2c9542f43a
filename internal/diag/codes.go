package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002

	// Парсерные
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynExpectSemicolon    Code = 2002
	SynExpectLParen       Code = 2003
	SynExpectRParen       Code = 2004
	SynExpectLibraryName  Code = 2005
	SynExpectType         Code = 2006
	SynUnknownType        Code = 2007
	SynExpectConstOrCplx  Code = 2008
	SynExpectFnName       Code = 2009
	SynExpectParamName    Code = 2010
	SynCommentInsideDef   Code = 2011
	SynUnexpectedTopLevel Code = 2012

	// Семантические (commit)
	SemaInfo              Code = 3000
	SemaNoLibrary         Code = 3001
	SemaInvalidFnDef      Code = 3002
	SemaUnknownDefinition Code = 3003
	SemaDuplicateFunction Code = 3004
	SemaMalformedParams   Code = 3005

	// I/O
	IOLoadFileError Code = 4001
	IOCacheError    Code = 4002
	IOManifestError Code = 4003

	// Разрешение нативных модулей
	ResInfo           Code = 5000
	ResModuleOpen     Code = 5001
	ResSymbolNotFound Code = 5002
	ResBadHandle      Code = 5003
	ResInvalidType    Code = 5004
)

var codeDescription = map[Code]string{
	UnknownCode:           "Unknown error",
	LexInfo:               "Lexical information",
	LexUnknownChar:        "Unknown character",
	LexUnterminatedString: "Unterminated library name",
	SynInfo:               "Syntax information",
	SynUnexpectedToken:    "Unexpected token",
	SynExpectSemicolon:    "Expected ';'",
	SynExpectLParen:       "Expected '('",
	SynExpectRParen:       "Expected ')'",
	SynExpectLibraryName:  "Expected quoted library name",
	SynExpectType:         "Expected type",
	SynUnknownType:        "Unknown type",
	SynExpectConstOrCplx:  "Expected 'const' or 'cplx'",
	SynExpectFnName:       "Expected function name",
	SynExpectParamName:    "Expected parameter name",
	SynCommentInsideDef:   "Comment inside a definition",
	SynUnexpectedTopLevel: "Unexpected top-level construct",
	SemaInfo:              "Semantic information",
	SemaNoLibrary:         "Function declared before any library",
	SemaInvalidFnDef:      "Invalid function definition",
	SemaUnknownDefinition: "Unknown definition type",
	SemaDuplicateFunction: "Duplicate function name",
	SemaMalformedParams:   "Malformed parameter list",
	IOLoadFileError:       "Unable to open IDL file",
	IOCacheError:          "AST cache failure",
	IOManifestError:       "Invalid manifest",
	ResInfo:               "Resolution information",
	ResModuleOpen:         "Could not open module",
	ResSymbolNotFound:     "Could not resolve function",
	ResBadHandle:          "Unknown function handle",
	ResInvalidType:        "Invalid type descriptor",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("RES%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
