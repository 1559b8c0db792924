package db

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("arrangement not found")

// MaxBatch is the most arrangements Summaries will look up at once.
const MaxBatch = 10

// Record is a stored arrangement. The arrangement itself is kept as the JSON
// the API served.
type Record struct {
	Id          string          `json:"id"`
	Title       string          `json:"title,omitempty"`
	Created     time.Time       `json:"created"`
	Arrangement json.RawMessage `json:"arrangement"`
}

type Summary struct {
	Id      string    `json:"id"`
	Title   string    `json:"title,omitempty"`
	Created time.Time `json:"created"`
}

type Store interface {
	Put(ctx context.Context, r Record) error
	Get(ctx context.Context, id string) (Record, error)
	// Summaries skips ids that are not stored.
	Summaries(ctx context.Context, ids []string) (map[string]Summary, error)
}

type Memory struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewMemory() *Memory {
	return &Memory{records: make(map[string]Record)}
}

func (m *Memory) Put(ctx context.Context, r Record) error {
	if r.Id == "" {
		return errors.New("record has no id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[r.Id] = r
	return nil
}

func (m *Memory) Get(ctx context.Context, id string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[id]
	if !ok {
		return Record{}, errors.Wrap(ErrNotFound, id)
	}
	return r, nil
}

func (m *Memory) Summaries(ctx context.Context, ids []string) (map[string]Summary, error) {
	if len(ids) > MaxBatch {
		return nil, errors.Errorf("at most %d ids per lookup", MaxBatch)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make(map[string]Summary)
	for _, id := range ids {
		if r, ok := m.records[id]; ok {
			res[id] = r.summary()
		}
	}
	return res, nil
}

// Ids lists the stored ids, oldest first.
func (m *Memory) Ids() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]string, 0, len(m.records))
	for id := range m.records {
		res = append(res, id)
	}
	sort.Slice(res, func(i, j int) bool {
		a, b := m.records[res[i]], m.records[res[j]]
		if !a.Created.Equal(b.Created) {
			return a.Created.Before(b.Created)
		}
		return res[i] < res[j]
	})
	return res
}

func (r Record) summary() Summary {
	return Summary{Id: r.Id, Title: r.Title, Created: r.Created}
}
