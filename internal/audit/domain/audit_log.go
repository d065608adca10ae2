// Package domain defines the audit log model.
// Audit entries record account and token mutations for compliance and
// incident investigation. Writing an entry is always best-effort: a failed
// audit write never fails the operation it describes.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Actions recorded in the audit trail.
const (
	ActionRegisterAccount   = "register_account"
	ActionRotateSecretKey   = "regenerate_secret_key"
	ActionCreateToken       = "create_token"
	ActionUpdateToken       = "update_token"
	ActionDeleteToken       = "delete_token"
)

// Results of an audited action.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// AuditLog records a single account or token mutation.
type AuditLog struct {
	ID         uuid.UUID
	AccountID  uuid.UUID
	Action     string
	ResourceID string // token ID or account ID the action touched
	Result     string
	ErrorMsg   string
	Metadata   map[string]any
	CreatedAt  time.Time
}
