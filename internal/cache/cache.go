// Package cache stores search results in LevelDB, keyed by a hash of the
// graph and of the parameters that influence the answer.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	scheduler "github.com/TudorHulban/tardiness"
)

const _KeyPrefix = "result:"

type entry struct {
	Result    *scheduler.Result `json:"result"`
	ExpiresAt time.Time         `json:"expiresAt"`
}

type Cache struct {
	db  *leveldb.DB
	ttl time.Duration

	mu sync.Mutex
}

func Open(path string, ttl time.Duration) (*Cache, error) {
	db, errOpen := leveldb.OpenFile(
		path,
		&opt.Options{
			WriteBuffer: 1 * 1024 * 1024,
		},
	)
	if errOpen != nil {
		return nil,
			fmt.Errorf("open leveldb: %w", errOpen)
	}

	return &Cache{
			db:  db,
			ttl: ttl,
		},
		nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// Key hashes what determines the result. Workers is left out,
// it does not change the answer.
func Key(graph *scheduler.Graph, params *scheduler.ParamsSearch) (string, error) {
	type keyTask struct {
		Name     string
		Duration float64
		DueDate  float64
	}

	tasks := make([]keyTask, 0, graph.Len())

	for _, task := range graph.Tasks() {
		tasks = append(
			tasks,
			keyTask{
				Name:     task.Name,
				Duration: task.Duration,
				DueDate:  task.DueDate,
			},
		)
	}

	data, errMarshal := json.Marshal(
		[]any{
			tasks,
			graph.Edges(),
			params.Mode,
			params.MaxIterations,
			params.BeamWidth,
		},
	)
	if errMarshal != nil {
		return "",
			fmt.Errorf("marshal cache key: %w", errMarshal)
	}

	hash := sha256.Sum256(data)

	return _KeyPrefix + hex.EncodeToString(hash[:]),
		nil
}

// Get returns nil without error on a miss or an expired entry.
func (c *Cache) Get(key string) (*scheduler.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, errGet := c.db.Get([]byte(key), nil)
	if errGet != nil {
		if errors.Is(errGet, leveldb.ErrNotFound) {
			return nil,
				nil
		}

		return nil,
			errGet
	}

	var cached entry

	if errUnmarshal := json.Unmarshal(data, &cached); errUnmarshal != nil {
		return nil,
			fmt.Errorf("unmarshal cache entry: %w", errUnmarshal)
	}

	if time.Now().After(cached.ExpiresAt) {
		return nil,
			c.db.Delete([]byte(key), nil)
	}

	return cached.Result,
		nil
}

func (c *Cache) Put(key string, result *scheduler.Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, errMarshal := json.Marshal(
		entry{
			Result:    result,
			ExpiresAt: time.Now().Add(c.ttl),
		},
	)
	if errMarshal != nil {
		return fmt.Errorf("marshal cache entry: %w", errMarshal)
	}

	return c.db.Put([]byte(key), data, nil)
}

// Purge removes the expired entries and returns how many were removed.
func (c *Cache) Purge() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	iter := c.db.NewIterator(util.BytesPrefix([]byte(_KeyPrefix)), nil)

	batch := new(leveldb.Batch)
	now := time.Now()

	for iter.Next() {
		var cached entry

		if errUnmarshal := json.Unmarshal(iter.Value(), &cached); errUnmarshal != nil || now.After(cached.ExpiresAt) {
			batch.Delete(append([]byte(nil), iter.Key()...))
		}
	}

	iter.Release()

	if errIter := iter.Error(); errIter != nil {
		return 0,
			errIter
	}

	return batch.Len(),
		c.db.Write(batch, nil)
}
