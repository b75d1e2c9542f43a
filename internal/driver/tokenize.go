package driver

import (
	"nlib/internal/diag"
	"nlib/internal/lexer"
	"nlib/internal/source"
	"nlib/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize lexes one IDL file. Lexical errors do not stop tokenization:
// they become Invalid tokens plus diagnostics in Bag.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, loadError(path, err)
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(maxDiagnostics)
	lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})

	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  lx.All(),
		Bag:     bag,
	}, nil
}

func loadError(path string, err error) *diag.Error {
	return &diag.Error{
		Class:   diag.ErrIO,
		Code:    diag.IOLoadFileError,
		Message: "could not read IDL file",
		Path:    path,
		Cause:   err,
	}
}
