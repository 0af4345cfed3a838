package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

// DefaultLimit is the number of recent searches retained when no explicit
// limit is configured.
const DefaultLimit = 8

const (
	dbFileName = "searches.db"
	bucketName = "search_history"
	recentKey  = "recent"
)

var ErrStorageDirRequired = errors.New("storage directory not provided")

// Service keeps the device-scoped list of recent search queries, most recent
// first. The list is shared across accounts and survives restarts.
type Service struct {
	db    *bolt.DB
	limit int
}

func NewService(storageDir string, limit int) (*Service, error) {
	if strings.TrimSpace(storageDir) == "" {
		return nil, ErrStorageDirRequired
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	path := filepath.Join(storageDir, dbFileName)
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history bucket: %w", err)
	}

	return &Service{db: db, limit: limit}, nil
}

// Read returns the stored queries, most recent first. A missing or
// undecodable record reads as an empty list.
func (s *Service) Read() ([]string, error) {
	var queries []string
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket([]byte(bucketName)).Get([]byte(recentKey))
		if raw == nil {
			return nil
		}
		if err := json.Unmarshal(raw, &queries); err != nil {
			// Corrupt payload reads as empty rather than failing every call.
			queries = nil
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read search history: %w", err)
	}
	if queries == nil {
		queries = []string{}
	}
	return queries, nil
}

// Push records a query at the front of the list, moving an exact duplicate
// to the front instead of storing it twice, and trims the list to the
// configured limit. Empty or whitespace-only queries are ignored.
func (s *Service) Push(query string) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.Read()
	}

	current, err := s.Read()
	if err != nil {
		return nil, err
	}

	next := make([]string, 0, len(current)+1)
	next = append(next, query)
	for _, q := range current {
		if q == query {
			continue
		}
		next = append(next, q)
	}
	if len(next) > s.limit {
		next = next[:s.limit]
	}

	if err := s.write(next); err != nil {
		return nil, err
	}
	return next, nil
}

// Clear removes all stored queries.
func (s *Service) Clear() error {
	return s.write([]string{})
}

func (s *Service) Close() error {
	return s.db.Close()
}

func (s *Service) write(queries []string) error {
	raw, err := json.Marshal(queries)
	if err != nil {
		return fmt.Errorf("failed to encode search history: %w", err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(recentKey), raw)
	})
	if err != nil {
		return fmt.Errorf("failed to store search history: %w", err)
	}
	return nil
}
