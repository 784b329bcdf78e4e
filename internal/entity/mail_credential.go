package entity

import (
	"context"
	"errors"
)

var ErrMailCredentialNotFound = errors.New("mail credential not found")

// MailCredential is the per-owner SMTP provider credential used to resolve
// the outbound mail channel. Refresh and connection management live in the
// main product, not here.
type MailCredential struct {
	OwnerID  string `json:"owner_id"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"-"`
	From     string `json:"from"`
}

type MailCredentialRepository interface {
	FindByOwnerID(ctx context.Context, ownerID string) (*MailCredential, error)
}
