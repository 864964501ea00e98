package domain

import "time"

// CatalogStatus is the status of a document in the service's history.
type CatalogStatus string

const (
	// CatalogStatusActive marks the document currently backing the index.
	CatalogStatusActive CatalogStatus = "active"
	// CatalogStatusIndexed marks a previously indexed document.
	CatalogStatusIndexed CatalogStatus = "indexed"
)

// CatalogEntry is one document in the service's document history.
// The catalog is independent of IndexState.
type CatalogEntry struct {
	ID         string
	Name       string
	UploadDate time.Time
	// PageCount is nil when unknown.
	PageCount  *int
	ChunkCount int
	Status     CatalogStatus
}

// IsActive reports whether the entry backs the live index.
func (e CatalogEntry) IsActive() bool {
	return e.Status == CatalogStatusActive
}

// UploadRecord is a locally recorded successful upload.
type UploadRecord struct {
	ID            string
	DocumentName  string
	LocalPath     string
	SizeBytes     int64
	PageCount     int
	ChunksCreated int
	UploadedAt    time.Time
}
