package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-artwork-pipeline/pkg/models"
)

// MemoryRecordStore implements RecordStore in process memory. Used in tests
// and when the deployment has no persistence backend wired up.
type MemoryRecordStore struct {
	mu      sync.RWMutex
	records map[string]*StoredRecord
}

// NewMemoryRecordStore creates an empty in-memory store
func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{records: make(map[string]*StoredRecord)}
}

// SaveRecord stores a merged record for a user and returns its new ID
func (s *MemoryRecordStore) SaveRecord(ctx context.Context, userID, imageURL string, record models.MergedArtworkRecord) (string, error) {
	if userID == "" {
		return "", ErrMissingUserID
	}

	stored := &StoredRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		ImageURL:  imageURL,
		Record:    record,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	s.mu.Lock()
	s.records[stored.ID] = stored
	s.mu.Unlock()
	return stored.ID, nil
}

// GetRecord retrieves a stored record by ID
func (s *MemoryRecordStore) GetRecord(ctx context.Context, id string) (*StoredRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec, ok := s.records[id]; ok {
		return rec, nil
	}
	return nil, ErrRecordNotFound
}

// ListRecords retrieves all records stored for a user
func (s *MemoryRecordStore) ListRecords(ctx context.Context, userID string) ([]*StoredRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*StoredRecord
	for _, rec := range s.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}
