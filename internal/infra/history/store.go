package history

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"versa/internal/domain"
)

var (
	recordsBucket = []byte("records")
	indexBucket   = []byte("record_index")
)

// Query filters List results.
type Query struct {
	Limit  int
	ToolID string
}

// Store persists transformation records in a bbolt file. Records are keyed
// by creation time so iteration order is chronological.
type Store struct {
	mu     sync.RWMutex
	db     *bolt.DB
	path   string
	closed bool
	now    func() time.Time
}

func Open(path string) (*Store, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("history path is required")
	}
	if err := os.MkdirAll(filepath.Dir(trimmed), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history dir: %w", err)
	}
	db, err := bolt.Open(trimmed, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{recordsBucket, indexBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, path: trimmed, now: time.Now}, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// Put stores record, assigning an id and timestamp when missing.
func (s *Store) Put(record domain.HistoryRecord) (domain.HistoryRecord, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.now()
	}
	record.CreatedAt = record.CreatedAt.UTC()
	payload, err := json.Marshal(record)
	if err != nil {
		return domain.HistoryRecord{}, fmt.Errorf("encode history record: %w", err)
	}
	key := recordKey(record)

	err = s.update(func(tx *bolt.Tx) error {
		index := tx.Bucket(indexBucket)
		records := tx.Bucket(recordsBucket)
		if previous := index.Get([]byte(record.ID)); previous != nil {
			if err := records.Delete(previous); err != nil {
				return err
			}
		}
		if err := records.Put(key, payload); err != nil {
			return err
		}
		return index.Put([]byte(record.ID), key)
	})
	if err != nil {
		return domain.HistoryRecord{}, err
	}
	return record, nil
}

func (s *Store) Get(id string) (domain.HistoryRecord, error) {
	var record domain.HistoryRecord
	err := s.view(func(tx *bolt.Tx) error {
		key := tx.Bucket(indexBucket).Get([]byte(id))
		if key == nil {
			return domain.ErrRecordNotFound
		}
		value := tx.Bucket(recordsBucket).Get(key)
		if value == nil {
			return domain.ErrRecordNotFound
		}
		return json.Unmarshal(value, &record)
	})
	return record, err
}

// List returns records newest first.
func (s *Store) List(query Query) ([]domain.HistoryRecord, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = domain.DefaultHistoryListLimit
	}
	out := make([]domain.HistoryRecord, 0, limit)
	err := s.view(func(tx *bolt.Tx) error {
		cursor := tx.Bucket(recordsBucket).Cursor()
		for key, value := cursor.Last(); key != nil && len(out) < limit; key, value = cursor.Prev() {
			var record domain.HistoryRecord
			if err := json.Unmarshal(value, &record); err != nil {
				return fmt.Errorf("decode history record: %w", err)
			}
			if query.ToolID != "" && record.ToolID != query.ToolID {
				continue
			}
			out = append(out, record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a record by id.
func (s *Store) Delete(id string) error {
	return s.update(func(tx *bolt.Tx) error {
		index := tx.Bucket(indexBucket)
		key := index.Get([]byte(id))
		if key == nil {
			return domain.ErrRecordNotFound
		}
		if err := tx.Bucket(recordsBucket).Delete(key); err != nil {
			return err
		}
		return index.Delete([]byte(id))
	})
}

func (s *Store) view(fn func(*bolt.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return domain.ErrStoreClosed
	}
	return s.db.View(fn)
}

func (s *Store) update(fn func(*bolt.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return domain.ErrStoreClosed
	}
	return s.db.Update(fn)
}

func recordKey(record domain.HistoryRecord) []byte {
	key := make([]byte, 8, 8+len(record.ID))
	binary.BigEndian.PutUint64(key, uint64(record.CreatedAt.UnixNano()))
	return append(key, record.ID...)
}
