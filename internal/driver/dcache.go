package driver

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"nlib/internal/ast"
	"nlib/internal/project"
	"nlib/internal/source"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

var schemaSalt = project.DigestString("nlib-ast-v1")

// DiskCache хранит распарсенные деревья по хешу содержимого IDL файла.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is a parsed tree in flat form. Spans keep the FileID they
// had when stored; Restore rebinds them to the caller's file.
type DiskPayload struct {
	Schema uint16
	Path   string
	Hash   project.Digest
	Root   ast.NodeID
	Nodes  []ast.Node
}

// OpenDiskCache opens (creating if needed) a cache rooted at dir.
func OpenDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// CacheKey returns the key for a file: its content hash salted with the
// payload schema.
func CacheKey(f *source.File) project.Digest {
	return project.Combine(project.Digest(f.Hash), schemaSalt)
}

func (c *DiskCache) pathFor(key project.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "ast", hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache.
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

func treeToPayload(f *source.File, tree *ast.Tree) *DiskPayload {
	return &DiskPayload{
		Schema: diskCacheSchemaVersion,
		Path:   f.Path,
		Hash:   project.Digest(f.Hash),
		Root:   tree.Root(),
		Nodes:  tree.Nodes(),
	}
}

// payloadToTree восстанавливает дерево для файла f; nil если payload устарел
// или не сходится с содержимым.
func payloadToTree(f *source.File, payload *DiskPayload) *ast.Tree {
	if payload == nil || payload.Schema != diskCacheSchemaVersion || payload.Hash != project.Digest(f.Hash) {
		return nil
	}
	nodes := make([]ast.Node, len(payload.Nodes))
	size, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		return nil
	}
	for i, n := range payload.Nodes {
		if n.Span.Start > n.Span.End || n.Span.End > size {
			return nil
		}
		n.Span = n.Span.WithFile(f.ID)
		nodes[i] = n
	}
	tree, err := ast.FromNodes(nodes, payload.Root)
	if err != nil {
		return nil
	}
	return tree
}
