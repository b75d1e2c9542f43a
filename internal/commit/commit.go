// Package commit materialises a parsed IDL tree into the function registry.
//
// Commit runs in two phases. Validation walks every definition and fails
// with a semantic error before anything is registered. Registration then
// adds each function in source order; if a native module or symbol cannot
// be resolved the registrations made by this call are undone.
package commit

import (
	"context"
	"fmt"
	"strconv"

	"nlib/internal/abi"
	"nlib/internal/ast"
	"nlib/internal/diag"
	"nlib/internal/registry"
	"nlib/internal/source"
	"nlib/internal/trace"
)

// Target is the registry surface the pass writes to.
type Target interface {
	Add(name, library string) (registry.Handle, error)
	SetReturnType(h registry.Handle, t abi.Type) error
	AddArgType(h registry.Handle, t abi.Type) error
	Find(name string) (registry.Handle, bool)
	Len() int
	Truncate(n int) error
}

type Options struct {
	FileSet  *source.FileSet // positions errors; may be nil
	Reporter diag.Reporter   // receives warnings; may be nil
}

// Result lists what one Commit registered.
type Result struct {
	Functions []registry.Handle
	Libraries []string // distinct, in order of first use
}

// function is a validated FnDef ready for registration.
type function struct {
	name    string
	library string
	span    source.Span
	ret     abi.Type
	args    []abi.Type
}

// Commit validates tree and registers its functions into target.
func Commit(ctx context.Context, tree *ast.Tree, target Target, opts Options) (Result, error) {
	ctx, span := trace.BeginCtx(ctx, trace.ScopePass, "commit")
	var res Result
	defer func() {
		span.WithExtra("functions", strconv.Itoa(len(res.Functions))).End("")
	}()

	c := &committer{tree: tree, opts: opts}
	fns, err := c.validate()
	if err != nil {
		return Result{}, err
	}
	c.reportDuplicates(ctx, fns, target)

	res, err = c.register(ctx, fns, target)
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

// Validate runs the validation phase alone. Nothing is registered.
func Validate(tree *ast.Tree, opts Options) error {
	c := &committer{tree: tree, opts: opts}
	_, err := c.validate()
	return err
}

type committer struct {
	tree *ast.Tree
	opts Options
}

func (c *committer) fail(code diag.Code, sp source.Span, format string, args ...any) error {
	err := diag.Errorf(diag.ErrSemantic, code, format, args...)
	return err.Positioned(c.opts.FileSet, sp)
}

func (c *committer) register(ctx context.Context, fns []function, target Target) (Result, error) {
	var res Result
	start := target.Len()
	seenLib := make(map[string]bool)

	undo := func(err error) (Result, error) {
		if terr := target.Truncate(start); terr != nil {
			trace.Point(trace.FromContext(ctx), trace.ScopePass, "commit-undo", terr.Error())
		}
		return Result{}, err
	}

	for _, fn := range fns {
		if err := ctx.Err(); err != nil {
			return undo(err)
		}
		h, err := target.Add(fn.name, fn.library)
		if err != nil {
			if de, ok := diag.AsError(err); ok {
				de.Positioned(c.opts.FileSet, fn.span)
			}
			return undo(err)
		}
		if err := target.SetReturnType(h, fn.ret); err != nil {
			return undo(err)
		}
		for _, a := range fn.args {
			if err := target.AddArgType(h, a); err != nil {
				return undo(err)
			}
		}
		res.Functions = append(res.Functions, h)
		if !seenLib[fn.library] {
			seenLib[fn.library] = true
			res.Libraries = append(res.Libraries, fn.library)
		}
	}
	return res, nil
}

// reportDuplicates warns about names that hooks cannot tell apart.
// Find keeps returning the first registration.
func (c *committer) reportDuplicates(ctx context.Context, fns []function, target Target) {
	first := make(map[string]source.Span, len(fns))
	for _, fn := range fns {
		msg := ""
		var note *diag.Note
		if prev, ok := first[fn.name]; ok {
			msg = fmt.Sprintf("function %q is declared more than once; hooks resolve to the first declaration", fn.name)
			note = &diag.Note{Span: prev, Msg: "first declared here"}
		} else if _, ok := target.Find(fn.name); ok {
			msg = fmt.Sprintf("function %q is already registered by an earlier load; hooks keep resolving to it", fn.name)
		} else {
			first[fn.name] = fn.span
			continue
		}
		trace.Point(trace.FromContext(ctx), trace.ScopeEntry, "duplicate:"+fn.name, "", "library", fn.library)
		if c.opts.Reporter == nil {
			continue
		}
		b := diag.ReportWarning(c.opts.Reporter, diag.SemaDuplicateFunction, fn.span, msg)
		if note != nil {
			b.WithNote(note.Span, note.Msg)
		}
		b.Emit()
	}
}
