package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/thibaudlanglade-collab/event-chef-pal-sub001/internal/entity"
)

type MailCredentialRepository struct {
	DB *sql.DB
}

func NewMailCredentialRepository(db *sql.DB) *MailCredentialRepository {
	return &MailCredentialRepository{DB: db}
}

func (r *MailCredentialRepository) FindByOwnerID(ctx context.Context, ownerID string) (*entity.MailCredential, error) {
	query := `
		SELECT owner_id, smtp_host, smtp_port, username, password, COALESCE(from_address, '')
		FROM mail_credentials
		WHERE owner_id = $1
	`

	var c entity.MailCredential
	err := r.DB.QueryRowContext(ctx, query, ownerID).Scan(
		&c.OwnerID,
		&c.Host,
		&c.Port,
		&c.Username,
		&c.Password,
		&c.From,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrMailCredentialNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mail credential lookup failed: %w", err)
	}

	return &c, nil
}
