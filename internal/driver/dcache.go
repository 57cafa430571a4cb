package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"htmlizer/internal/diag"
	"htmlizer/internal/source"
)

// Current schema version - increment when CheckPayload format changes
const diskCacheSchemaVersion uint16 = 1

// Digest is a SHA-256 cache key.
type Digest [32]byte

// DiskCache keeps check results of template files on disk, keyed by the
// file content and everything else that changes the outcome.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CheckPayload is the cached outcome of checking one file.
type CheckPayload struct {
	Schema      uint16
	Path        string
	Diagnostics []CachedDiagnostic
}

// CachedDiagnostic is a diagnostic with its spans reduced to offsets;
// the file id is reassigned on replay.
type CachedDiagnostic struct {
	Severity uint8
	Code     uint16
	Message  string
	Start    uint32
	End      uint32
	Notes    []CachedNote
}

type CachedNote struct {
	Start uint32
	End   uint32
	Msg   string
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt uses dir as the cache directory.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "checks", hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *CheckPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	// атомарная замена
	return os.Rename(tmp, p)
}

// Get reads and deserializes a payload from the disk cache. Payloads of an
// older schema count as a miss.
func (c *DiskCache) Get(key Digest, out *CheckPayload) (bool, error) {
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
	return out.Schema == diskCacheSchemaVersion, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// cacheKey covers the file content, the marker syntax and the set of
// known components, which decide whether a tag is a component.
func (s *Session) cacheKey(file *source.File) Digest {
	h := sha256.New()
	_, _ = h.Write(file.Hash[:])
	if s.opts.NoConflict {
		_, _ = h.Write([]byte("no-conflict"))
	}
	names := s.comps.Names()
	sort.Strings(names)
	for _, n := range names {
		_, _ = h.Write([]byte("\x00" + n))
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// replay fills res from the cache. It reports false on a miss.
func (s *Session) replay(res *FileResult, key Digest) bool {
	if s.opts.Cache == nil {
		return false
	}
	var payload CheckPayload
	ok, err := s.opts.Cache.Get(key, &payload)
	if err != nil || !ok {
		return false
	}
	for _, cd := range payload.Diagnostics {
		d := &diag.Diagnostic{
			Severity: diag.Severity(cd.Severity),
			Code:     diag.Code(cd.Code),
			Message:  cd.Message,
			Primary:  source.Span{File: res.FileID, Start: cd.Start, End: cd.End},
		}
		for _, n := range cd.Notes {
			d.Notes = append(d.Notes, diag.Note{
				Span: source.Span{File: res.FileID, Start: n.Start, End: n.End},
				Msg:  n.Msg,
			})
		}
		res.Bag.Add(d)
	}
	res.Cached = true
	return true
}

// store writes the check result of res; cache failures only cost a miss later.
func (s *Session) store(res *FileResult, key Digest) {
	if s.opts.Cache == nil {
		return
	}
	payload := &CheckPayload{Schema: diskCacheSchemaVersion, Path: res.Path}
	for _, d := range res.Bag.Items() {
		cd := CachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, CachedNote{Start: n.Span.Start, End: n.Span.End, Msg: n.Msg})
		}
		payload.Diagnostics = append(payload.Diagnostics, cd)
	}
	_ = s.opts.Cache.Put(key, payload)
}
