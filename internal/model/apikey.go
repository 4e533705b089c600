package model

import (
	"time"

	"github.com/google/uuid"
)

// APIKey is an issued credential for the external read API. Only the
// hash of the key is stored; the plaintext is returned exactly once at
// creation time.
type APIKey struct {
	Base
	Name      string     `db:"name" json:"name"`
	KeyHash   string     `db:"key_hash" json:"-"`
	CreatedBy uuid.UUID  `db:"created_by" json:"created_by"`
	RevokedAt *time.Time `db:"revoked_at" json:"revoked_at,omitempty"`
}

func (k *APIKey) Revoked() bool {
	return k.RevokedAt != nil
}

type CreateAPIKeyRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// CreatedAPIKey carries the plaintext key alongside the stored record.
type CreatedAPIKey struct {
	APIKey
	Key string `json:"key"`
}
