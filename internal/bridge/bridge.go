// Package bridge is the host-facing entry point of nlib.
//
// A Context owns one function registry, one hook table and the diagnostics
// collected while loading IDL files. Hosts create as many contexts as they
// need; nothing is shared between them.
package bridge

import (
	"context"
	"io"
	"os"
	"sync"

	"nlib/internal/abi"
	"nlib/internal/ast"
	"nlib/internal/commit"
	"nlib/internal/diag"
	"nlib/internal/diagfmt"
	"nlib/internal/hooks"
	"nlib/internal/parser"
	"nlib/internal/registry"
	"nlib/internal/source"
	"nlib/internal/trace"
)

// выход процесса подменяется в тестах
var (
	stderr io.Writer = os.Stderr
	exit             = os.Exit
)

type Options struct {
	// Loader opens native modules. nil means a DynamicLoader over SearchPaths.
	Loader      registry.Loader
	SearchPaths []string
	Tracer      trace.Tracer // nil means trace.Nop
	// MaxDiagnostics caps the diagnostics bag; 0 means 256.
	MaxDiagnostics int
	// Color enables ANSI colours in MustLoadIDL output.
	Color bool
}

// Context is safe for concurrent use. Parsing runs in parallel; commits and
// AddFunction serialise on commitMu, so a failed load only ever rolls back
// its own registrations.
type Context struct {
	commitMu sync.Mutex

	fs     *source.FileSet
	reg    *registry.Registry
	hooks  *hooks.Table
	bag    *diag.Bag
	tracer trace.Tracer
	color  bool
}

func New(opts Options) *Context {
	if opts.Tracer == nil {
		opts.Tracer = trace.Nop
	}
	if opts.Loader == nil {
		opts.Loader = &registry.DynamicLoader{SearchPaths: opts.SearchPaths}
	}
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = 256
	}
	reg := registry.New(registry.Options{Loader: opts.Loader, Tracer: opts.Tracer})
	return &Context{
		fs:     source.NewFileSet(),
		reg:    reg,
		hooks:  hooks.New(reg, opts.Tracer),
		bag:    diag.NewBag(opts.MaxDiagnostics),
		tracer: opts.Tracer,
		color:  opts.Color,
	}
}

// AddFunction loads library, resolves name in it and registers a function
// returning void with no arguments.
func (c *Context) AddFunction(name, library string) (registry.Handle, error) {
	c.commitMu.Lock()
	defer c.commitMu.Unlock()
	return c.reg.Add(name, library)
}

// SetReturnType validates (class, width, isConst) and sets h's return type.
func (c *Context) SetReturnType(h registry.Handle, class abi.Class, width int, isConst bool) error {
	t, err := abi.New(class, width, isConst)
	if err != nil {
		return invalidType(err)
	}
	return c.reg.SetReturnType(h, t)
}

// AddArgType validates (class, width, isConst) and appends it to h's arguments.
func (c *Context) AddArgType(h registry.Handle, class abi.Class, width int, isConst bool) error {
	t, err := abi.New(class, width, isConst)
	if err != nil {
		return invalidType(err)
	}
	return c.reg.AddArgType(h, t)
}

func invalidType(err error) error {
	de := diag.Errorf(diag.ErrResolution, diag.ResInvalidType, "invalid type descriptor")
	de.Cause = err
	return de
}

// LookupFunction returns a copy of the descriptor at h; false when out of range.
func (c *Context) LookupFunction(h registry.Handle) (registry.Descriptor, bool) {
	return c.reg.Lookup(h)
}

// RegisterHook binds addr to the first function named name. A name that is
// not registered is a soft miss and returns false.
func (c *Context) RegisterHook(addr uint64, name string) bool {
	return c.hooks.Register(addr, name)
}

// GetHook returns the function bound to addr.
func (c *Context) GetHook(addr uint64) (registry.Descriptor, bool) {
	return c.hooks.Get(addr)
}

// LoadIDL reads, parses and commits one IDL file. On any failure nothing
// from the file is registered and the error is a *diag.Error.
func (c *Context) LoadIDL(ctx context.Context, path string) (commit.Result, error) {
	ctx, span := c.begin(ctx, "load-idl")
	defer span.WithExtra("path", path).End("")

	id, err := c.fs.Load(path)
	if err != nil {
		de := &diag.Error{Class: diag.ErrIO, Code: diag.IOLoadFileError, Message: "could not read IDL file", Path: path, Cause: err}
		c.bag.Add(de.Diagnostic())
		return commit.Result{}, de
	}
	return c.load(ctx, c.fs.Get(id))
}

// LoadSource parses and commits in-memory IDL text registered under name.
func (c *Context) LoadSource(ctx context.Context, name string, src []byte) (commit.Result, error) {
	ctx, span := c.begin(ctx, "load-source")
	defer span.WithExtra("name", name).End("")
	id := c.fs.AddVirtual(name, src)
	return c.load(ctx, c.fs.Get(id))
}

func (c *Context) load(ctx context.Context, f *source.File) (commit.Result, error) {
	fctx, fspan := trace.BeginCtx(ctx, trace.ScopeFile, f.Path)
	defer fspan.End("")

	_, pspan := trace.BeginCtx(fctx, trace.ScopePass, "parse")
	tree, err := parser.ParseFile(c.fs, f, parser.Options{Reporter: diag.BagReporter{Bag: c.bag}})
	pspan.End("")
	if err != nil {
		return commit.Result{}, err
	}
	return c.commit(fctx, c.fs, tree)
}

// CommitTree registers an already parsed tree whose spans refer to fs.
func (c *Context) CommitTree(ctx context.Context, fs *source.FileSet, tree *ast.Tree) (commit.Result, error) {
	ctx, span := c.begin(ctx, "commit-tree")
	defer span.End("")
	return c.commit(ctx, fs, tree)
}

func (c *Context) commit(ctx context.Context, fs *source.FileSet, tree *ast.Tree) (commit.Result, error) {
	c.commitMu.Lock()
	defer c.commitMu.Unlock()
	res, err := commit.Commit(ctx, tree, c.reg, commit.Options{
		FileSet:  fs,
		Reporter: diag.BagReporter{Bag: c.bag},
	})
	if de, ok := diag.AsError(err); ok {
		c.bag.Add(de.Diagnostic())
	}
	return res, err
}

// MustLoadIDL is LoadIDL for hosts that cannot continue without their
// bindings: on failure it prints the diagnostic to stderr and exits with
// status 1.
func (c *Context) MustLoadIDL(ctx context.Context, path string) commit.Result {
	res, err := c.LoadIDL(ctx, path)
	if err != nil {
		diagfmt.PrettyError(stderr, err, c.fs, diagfmt.PrettyOpts{Color: c.color})
		exit(1)
	}
	return res
}

// begin открывает driver-span, подставляя свой трейсер, если в ctx его нет.
func (c *Context) begin(ctx context.Context, name string) (context.Context, *trace.Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !trace.FromContext(ctx).Enabled() {
		ctx = trace.WithTracer(ctx, c.tracer)
	}
	return trace.BeginCtx(ctx, trace.ScopeDriver, name)
}

// Diagnostics returns the bag holding every warning and error reported so far.
func (c *Context) Diagnostics() *diag.Bag { return c.bag }

func (c *Context) FileSet() *source.FileSet     { return c.fs }
func (c *Context) Registry() *registry.Registry { return c.reg }
func (c *Context) Hooks() *hooks.Table          { return c.hooks }

// Close releases every native module. The context must not be used afterwards.
func (c *Context) Close() error {
	c.commitMu.Lock()
	defer c.commitMu.Unlock()
	return c.reg.Close()
}
