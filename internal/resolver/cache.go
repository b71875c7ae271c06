package resolver

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"lilt/internal/printer"
)

// cacheSchema is bumped whenever the payload layout or the generated
// code shape changes, invalidating older entries wholesale.
const cacheSchema = "lilt-cache-1"

// Store persists compiled module payloads between builds, keyed by
// content fingerprint.
type Store interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, data []byte) error
}

// cachePayload is what a build stores per module: the final generated
// code, the declaration stub, and the module's source import
// specifiers, so a cache hit can still resolve its dependencies without
// re-running the pipeline.
type cachePayload struct {
	Code    string   `msgpack:"code"`
	Dts     string   `msgpack:"dts"`
	Imports []string `msgpack:"imports"`
}

func encodePayload(p *cachePayload) ([]byte, error) {
	return msgpack.Marshal(p)
}

func decodePayload(data []byte) (*cachePayload, error) {
	var p cachePayload
	if err := msgpack.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// fingerprint keys a module by its normalized content and every option
// that affects the generated text.
func fingerprint(content []byte, opts printer.Options) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%d|%d|%d|%t|", cacheSchema, opts.Target, opts.Formatting, opts.IndentSize, opts.UseTabs)
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

// DiskStore keeps one file per entry under Dir. Writes go through a
// temporary file and a rename, so a crashed build never leaves a
// truncated entry behind.
type DiskStore struct {
	Dir string
}

func (s *DiskStore) path(key string) string {
	return filepath.Join(s.Dir, key+".msgpack")
}

func (s *DiskStore) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (s *DiskStore) Put(key string, data []byte) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.Dir, "put-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path(key))
}

// MemStore is an in-memory Store for tests and one-shot builds.
type MemStore struct {
	mu sync.Mutex
	m  map[string][]byte
}

func NewMemStore() *MemStore {
	return &MemStore{m: make(map[string][]byte)}
}

func (s *MemStore) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.m[key]
	return data, ok, nil
}

func (s *MemStore) Put(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = data
	return nil
}

// Len reports the number of stored entries.
func (s *MemStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}
