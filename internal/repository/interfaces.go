package repository

import (
	"context"

	"go-artwork-pipeline/pkg/models"
)

// StoredRecord is a persisted merged artwork record with its identifiers
type StoredRecord struct {
	ID        string                     `json:"id"`
	UserID    string                     `json:"user_id"`
	ImageURL  string                     `json:"image_url,omitempty"`
	Record    models.MergedArtworkRecord `json:"record"`
	CreatedAt string                     `json:"created_at"`
}

// RecordStore is the persistence collaborator boundary: it receives a
// merged record plus user identifiers for storage. Its backing service
// (hosted Postgres or similar) lives outside this codebase.
type RecordStore interface {
	// SaveRecord stores a merged record for a user and returns its new ID
	SaveRecord(ctx context.Context, userID, imageURL string, record models.MergedArtworkRecord) (string, error)

	// GetRecord retrieves a stored record by ID
	GetRecord(ctx context.Context, id string) (*StoredRecord, error)

	// ListRecords retrieves all records stored for a user
	ListRecords(ctx context.Context, userID string) ([]*StoredRecord, error)
}
