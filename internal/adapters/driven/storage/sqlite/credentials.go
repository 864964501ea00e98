package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
	"github.com/custodia-labs/docgpt-cli/internal/core/ports/driven"
)

// activeSlot is the key of the single credentials row.
const activeSlot = "active"

type credentialsStore struct {
	store *Store
}

var _ driven.CredentialsStore = (*credentialsStore)(nil)

// Save replaces the active credentials.
func (s *credentialsStore) Save(ctx context.Context, creds domain.Credentials) error {
	if creds.ID == "" {
		return domain.ErrInvalidInput
	}

	oauthJSON, err := json.Marshal(creds.OAuth)
	if err != nil {
		return fmt.Errorf("marshalling oauth token: %w", err)
	}
	staticJSON, err := json.Marshal(creds.Static)
	if err != nil {
		return fmt.Errorf("marshalling static token: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO credentials
			(slot, id, account_identifier, oauth, static_token, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			id = excluded.id,
			account_identifier = excluded.account_identifier,
			oauth = excluded.oauth,
			static_token = excluded.static_token,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at
	`, activeSlot, creds.ID, creds.AccountIdentifier,
		string(oauthJSON), string(staticJSON), creds.CreatedAt, creds.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}
	return nil
}

// Current returns the active credentials or domain.ErrNotFound.
func (s *credentialsStore) Current(ctx context.Context) (*domain.Credentials, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, account_identifier, oauth, static_token, created_at, updated_at
		FROM credentials WHERE slot = ?
	`, activeSlot)
	return scanCredentials(row)
}

// Delete removes the active credentials.
func (s *credentialsStore) Delete(ctx context.Context) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM credentials WHERE slot = ?", activeSlot); err != nil {
		return fmt.Errorf("deleting credentials: %w", err)
	}
	return nil
}

func scanCredentials(row *sql.Row) (*domain.Credentials, error) {
	var creds domain.Credentials
	var oauthJSON, staticJSON sql.NullString

	if err := row.Scan(&creds.ID, &creds.AccountIdentifier,
		&oauthJSON, &staticJSON, &creds.CreatedAt, &creds.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning credentials: %w", err)
	}

	if oauthJSON.Valid && oauthJSON.String != jsonNull {
		var oauth domain.OAuthToken
		if err := json.Unmarshal([]byte(oauthJSON.String), &oauth); err != nil {
			return nil, fmt.Errorf("unmarshalling oauth token: %w", err)
		}
		creds.OAuth = &oauth
	}
	if staticJSON.Valid && staticJSON.String != jsonNull {
		var static domain.StaticToken
		if err := json.Unmarshal([]byte(staticJSON.String), &static); err != nil {
			return nil, fmt.Errorf("unmarshalling static token: %w", err)
		}
		creds.Static = &static
	}
	return &creds, nil
}
