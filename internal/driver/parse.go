package driver

import (
	"nlib/internal/ast"
	"nlib/internal/commit"
	"nlib/internal/diag"
	"nlib/internal/parser"
	"nlib/internal/source"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tree    *ast.Tree // nil при синтаксической ошибке
	Bag     *diag.Bag
}

// Parse parses one IDL file and runs the commit validation phase without
// loading any native module. The result is non-nil whenever the file could
// be read, so callers can render err against result.FileSet.
func Parse(path string, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, loadError(path, err)
	}
	res := &ParseResult{
		FileSet: fs,
		File:    fs.Get(fileID),
		Bag:     diag.NewBag(maxDiagnostics),
	}

	tree, err := parser.ParseFile(fs, res.File, parser.Options{Reporter: diag.BagReporter{Bag: res.Bag}})
	if err != nil {
		return res, err
	}
	res.Tree = tree
	if err := commit.Validate(tree, commit.Options{FileSet: fs, Reporter: diag.BagReporter{Bag: res.Bag}}); err != nil {
		if de, ok := diag.AsError(err); ok {
			res.Bag.Add(de.Diagnostic())
		}
		return res, err
	}
	return res, nil
}
