package sqlite

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
	"github.com/custodia-labs/docgpt-cli/internal/core/ports/driven"
)

type historyStore struct {
	store *Store
}

var _ driven.UploadHistoryStore = (*historyStore)(nil)

// Record stores a completed upload.
func (s *historyStore) Record(ctx context.Context, rec domain.UploadRecord) error {
	if rec.ID == "" || rec.DocumentName == "" {
		return domain.ErrInvalidInput
	}
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO upload_history
			(id, document_name, local_path, size_bytes, page_count, chunks_created, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.DocumentName, rec.LocalPath, rec.SizeBytes, rec.PageCount, rec.ChunksCreated, rec.UploadedAt)
	if err != nil {
		return fmt.Errorf("recording upload: %w", err)
	}
	return nil
}

// List returns uploads newest first. A limit <= 0 returns all.
func (s *historyStore) List(ctx context.Context, limit int) ([]domain.UploadRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, document_name, local_path, size_bytes, page_count, chunks_created, uploaded_at
		FROM upload_history
		ORDER BY uploaded_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying upload history: %w", err)
	}
	defer rows.Close()

	records := []domain.UploadRecord{}
	for rows.Next() {
		var rec domain.UploadRecord
		if err := rows.Scan(&rec.ID, &rec.DocumentName, &rec.LocalPath, &rec.SizeBytes,
			&rec.PageCount, &rec.ChunksCreated, &rec.UploadedAt); err != nil {
			return nil, fmt.Errorf("scanning upload record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating upload history: %w", err)
	}
	return records, nil
}

// Clear removes all records.
func (s *historyStore) Clear(ctx context.Context) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM upload_history"); err != nil {
		return fmt.Errorf("clearing upload history: %w", err)
	}
	return nil
}
