package persistance

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"mrboard/internal/domain/mergerequest"

	"github.com/mitchellh/go-homedir"
	"github.com/natefinch/atomic"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	ProjectCacheTTL         = 30 * time.Minute
	DefaultProjectCachePath = "~/.config/mrboard/projects-cache.json"
)

type cachedProject struct {
	Project *mergerequest.ProjectSummary `json:"project"`
	// Timestamp is in epoch milliseconds.
	Timestamp int64 `json:"timestamp"`
}

type state map[string]*cachedProject

// Store holds the serialized cache.
type Store interface {
	Read() ([]byte, error)
	Write([]byte) error
	Remove() error
	Location() string
}

type fileStore struct {
	path string
}

func (fs *fileStore) Read() ([]byte, error) {
	data, err := os.ReadFile(fs.path)
	if os.IsNotExist(err) {
		return nil, nil
	}

	return data, err
}

func (fs *fileStore) Write(data []byte) error {
	err := os.MkdirAll(filepath.Dir(fs.path), 0700)
	if err != nil {
		return err
	}

	return atomic.WriteFile(fs.path, bytes.NewReader(data))
}

func (fs *fileStore) Remove() error {
	err := os.Remove(fs.path)
	if os.IsNotExist(err) {
		return nil
	}

	return err
}

func (fs *fileStore) Location() string {
	return fs.path
}

// XDGProjectCache keeps project summaries in a single JSON document. Every
// operation loads the whole document and writes it back when it changed.
type XDGProjectCache struct {
	mu    sync.Mutex
	store Store
	now   func() time.Time
}

func NewProjectCache(path string) (*XDGProjectCache, error) {
	if path == "" {
		path = DefaultProjectCachePath
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot resolve the project cache path")
	}

	return NewProjectCacheWithStore(&fileStore{path: expanded}), nil
}

func NewProjectCacheWithStore(s Store) *XDGProjectCache {
	return &XDGProjectCache{
		store: s,
		now:   time.Now,
	}
}

// isFresh rejects timestamps from the future, so a skewed clock cannot keep an
// entry alive past its ttl.
func (c *XDGProjectCache) isFresh(e *cachedProject) bool {
	if e == nil || e.Project == nil {
		return false
	}

	now := c.now()
	ts := time.UnixMilli(e.Timestamp)
	return !now.Before(ts) && now.Sub(ts) < ProjectCacheTTL
}

func (c *XDGProjectCache) read() state {
	s := state{}

	data, err := c.store.Read()
	if err != nil {
		log.Warn().Err(err).Msg("cannot read the project cache")
		return s
	}
	if len(data) == 0 {
		return s
	}

	err = json.Unmarshal(data, &s)
	if err != nil {
		log.Warn().Err(err).Msg("project cache is corrupt, starting empty")
		return state{}
	}

	return s
}

// load returns the cached entries with expired ones purged.
func (c *XDGProjectCache) load() state {
	s := c.read()

	purged := false
	for k, e := range s {
		if !c.isFresh(e) {
			delete(s, k)
			purged = true
		}
	}

	if purged {
		c.save(s)
	}

	return s
}

func (c *XDGProjectCache) save(s state) {
	data, err := json.Marshal(s)
	if err != nil {
		log.Error().Err(err).Msg("cannot marshal the project cache")
		return
	}

	err = c.store.Write(data)
	if err != nil {
		log.Error().Err(err).Msg("cannot save the project cache")
	}
}

func key(id int64) string {
	return strconv.FormatInt(id, 10)
}

func (c *XDGProjectCache) Get(id int64) (*mergerequest.ProjectSummary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.load()[key(id)]
	if !c.isFresh(e) {
		return nil, false
	}

	return e.Project, true
}

func (c *XDGProjectCache) Put(id int64, p *mergerequest.ProjectSummary) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.load()
	s[key(id)] = &cachedProject{
		Project:   p,
		Timestamp: c.now().UnixMilli(),
	}
	c.save(s)
}

func (c *XDGProjectCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return errors.Wrap(c.store.Remove(), "cannot clear the project cache")
}

// Status counts entries without purging anything.
func (c *XDGProjectCache) Status() mergerequest.CacheStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := mergerequest.CacheStatus{Location: c.store.Location()}
	for _, e := range c.read() {
		st.Total++
		if !c.isFresh(e) {
			st.Stale++
			continue
		}

		st.Fresh++
		ts := time.UnixMilli(e.Timestamp)
		if st.OldestFresh.IsZero() || ts.Before(st.OldestFresh) {
			st.OldestFresh = ts
		}
	}

	return st
}
