package driver

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"nlib/internal/ast"
	"nlib/internal/bridge"
	"nlib/internal/diag"
	"nlib/internal/observ"
	"nlib/internal/parser"
	"nlib/internal/registry"
	"nlib/internal/source"
	"nlib/internal/trace"
)

// IDLExt is the extension picked up when a directory is loaded.
const IDLExt = ".idl"

type LoadOptions struct {
	Jobs           int        // параллельный парсинг; <=0 -> GOMAXPROCS
	Cache          *DiskCache // nil отключает кеш
	MaxDiagnostics int
	Observer       ProgressObserver // may be nil
}

// FileResult is the outcome for one input file.
type FileResult struct {
	Path      string
	FileID    source.FileID
	Cached    bool
	Functions []registry.Handle
	Libraries []string
	Err       error
}

type LoadResult struct {
	Files   []FileResult
	Timings observ.Report
}

// Functions counts everything registered by the load.
func (r *LoadResult) Functions() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Functions)
	}
	return n
}

type parsed struct {
	tree   *ast.Tree
	cached bool
	bag    *diag.Bag
	err    error
}

// Load parses paths in parallel and commits them into c one file at a time
// in the given order. The first failing file stops the load: files before
// it stay registered, the failing file registers nothing and later files
// are not committed. The returned error is that file's error.
func Load(ctx context.Context, c *bridge.Context, paths []string, opts LoadOptions) (*LoadResult, error) {
	ctx, span := trace.BeginCtx(ctx, trace.ScopeDriver, "load")
	defer span.WithExtra("files", strconv.Itoa(len(paths))).End("")

	timer := observ.NewTimer()
	res := &LoadResult{Files: make([]FileResult, len(paths))}
	notify := opts.Observer.emit
	for i, p := range paths {
		res.Files[i].Path = p
		notify(ProgressEvent{File: p, Stage: StageQueued})
	}

	// Загрузка файлов последовательно: FileID идут в порядке входа
	fileSet := c.FileSet()
	files := make([]*source.File, len(paths))
	loadErrs := make([]*diag.Error, len(paths))
	for i, p := range paths {
		id, err := fileSet.Load(p)
		if err != nil {
			loadErrs[i] = loadError(p, err)
			continue
		}
		files[i] = fileSet.Get(id)
		res.Files[i].FileID = id
	}

	idx := timer.Begin("parse")
	trees, err := parseAll(ctx, fileSet, paths, files, opts)
	timer.End(idx, strconv.Itoa(len(paths))+" files")
	if err != nil {
		res.Timings = timer.Report()
		return res, err
	}

	idx = timer.Begin("commit")
	defer func() {
		timer.End(idx, "")
		res.Timings = timer.Report()
	}()
	for i, p := range paths {
		fr := &res.Files[i]
		if loadErrs[i] != nil {
			fr.Err = loadErrs[i]
			c.Diagnostics().Add(loadErrs[i].Diagnostic())
			notify(ProgressEvent{File: p, Stage: StageFailed, Err: fr.Err})
			return res, fr.Err
		}
		pr := trees[i]
		fr.Cached = pr.cached
		c.Diagnostics().Merge(pr.bag)
		if pr.err != nil {
			fr.Err = pr.err
			notify(ProgressEvent{File: p, Stage: StageFailed, Err: fr.Err})
			return res, fr.Err
		}

		cr, err := c.CommitTree(ctx, fileSet, pr.tree)
		if err != nil {
			fr.Err = err
			notify(ProgressEvent{File: p, Stage: StageFailed, Err: err})
			return res, err
		}
		fr.Functions, fr.Libraries = cr.Functions, cr.Libraries
		notify(ProgressEvent{File: p, Stage: StageCommitted, Functions: len(cr.Functions)})
	}
	return res, nil
}

// parseAll парсит файлы параллельно; индексы уникальны для каждой горутины,
// мьютекс не нужен. Ошибки разбора остаются в parsed.err: решение о порядке
// принимает Load.
func parseAll(ctx context.Context, fileSet *source.FileSet, paths []string, files []*source.File, opts LoadOptions) ([]parsed, error) {
	results := make([]parsed, len(files))
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(files))))
	for i, f := range files {
		if f == nil {
			continue
		}
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = parseOne(gctx, fileSet, paths[i], f, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// path is the caller's spelling; events must match the ones Load emits.
func parseOne(ctx context.Context, fileSet *source.FileSet, path string, f *source.File, opts LoadOptions) parsed {
	_, span := trace.BeginCtx(ctx, trace.ScopeFile, f.Path)
	defer span.End("")

	out := parsed{bag: diag.NewBag(max(opts.MaxDiagnostics, 1))}
	key := CacheKey(f)
	if opts.Cache != nil {
		var payload DiskPayload
		if ok, err := opts.Cache.Get(key, &payload); err != nil {
			out.bag.Add(diag.Diagnostic{
				Severity: diag.SevInfo,
				Code:     diag.IOCacheError,
				Message:  "ignoring unreadable AST cache entry: " + err.Error(),
				Primary:  source.Span{File: f.ID},
			})
		} else if ok {
			if tree := payloadToTree(f, &payload); tree != nil {
				span.WithExtra("cache", "hit")
				opts.Observer.emit(ProgressEvent{File: path, Stage: StageParsed, Cached: true})
				out.tree, out.cached = tree, true
				return out
			}
		}
	}

	opts.Observer.emit(ProgressEvent{File: path, Stage: StageParsing})
	tree, err := parser.ParseFile(fileSet, f, parser.Options{Reporter: diag.BagReporter{Bag: out.bag}})
	if err != nil {
		out.err = err
		return out
	}
	out.tree = tree
	if opts.Cache != nil {
		if err := opts.Cache.Put(key, treeToPayload(f, tree)); err != nil {
			trace.Point(trace.FromContext(ctx), trace.ScopeFile, "cache-put-failed", err.Error(), "path", f.Path)
		}
	}
	opts.Observer.emit(ProgressEvent{File: path, Stage: StageParsed})
	return out
}

// ExpandInputs replaces directories with the sorted *.idl files below them.
func ExpandInputs(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			// ошибку чтения сообщит Load, с позицией в списке
			out = append(out, p)
			continue
		}
		files, err := listIDLFiles(p)
		if err != nil {
			return nil, err
		}
		out = append(out, files...)
	}
	return out, nil
}

// listIDLFiles возвращает отсортированный список всех *.idl файлов в директории
func listIDLFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, IDLExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}
