package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestToken_Status(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name      string
		isActive  bool
		expiresAt time.Time
		want      Status
	}{
		{
			name:      "active and unexpired is normal",
			isActive:  true,
			expiresAt: now.Add(time.Hour),
			want:      StatusNormal,
		},
		{
			name:      "inactive and unexpired is disabled",
			isActive:  false,
			expiresAt: now.Add(time.Hour),
			want:      StatusDisabled,
		},
		{
			name:      "active but expired is expired",
			isActive:  true,
			expiresAt: now.Add(-time.Second),
			want:      StatusExpired,
		},
		{
			name:      "inactive and expired reads as expired",
			isActive:  false,
			expiresAt: now.Add(-time.Second),
			want:      StatusExpired,
		},
		{
			name:      "exactly at expiry instant is expired",
			isActive:  true,
			expiresAt: now,
			want:      StatusExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := &Token{
				ID:        uuid.Must(uuid.NewV7()),
				IsActive:  tt.isActive,
				ExpiresAt: tt.expiresAt,
			}
			assert.Equal(t, tt.want, token.Status(now))
		})
	}
}

func TestToken_CanValidate(t *testing.T) {
	now := time.Now().UTC()

	active := &Token{IsActive: true, ExpiresAt: now.Add(time.Hour)}
	assert.True(t, active.CanValidate(now))

	disabled := &Token{IsActive: false, ExpiresAt: now.Add(time.Hour)}
	assert.False(t, disabled.CanValidate(now))

	expired := &Token{IsActive: true, ExpiresAt: now.Add(-time.Minute)}
	assert.False(t, expired.CanValidate(now))
}

func TestValidateScopes(t *testing.T) {
	tests := []struct {
		name    string
		scopes  []string
		wantErr bool
	}{
		{"valid exact scope", []string{"storage:read"}, false},
		{"valid wildcard scope", []string{"storage:*"}, false},
		{"valid global wildcard", []string{"*"}, false},
		{"valid mixed set", []string{"storage:read", "cdn:refresh", "token:*"}, false},
		{"empty set", []string{}, true},
		{"unknown scope", []string{"ftp:read"}, true},
		{"unknown action", []string{"storage:explode"}, true},
		{"one bad entry taints the set", []string{"storage:read", "nonsense"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateScopes(tt.scopes)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidScope)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAllPermissions(t *testing.T) {
	categories := AllPermissions()
	assert.Len(t, categories, 5)

	// Every catalogue entry must pass its own validation.
	for _, category := range categories {
		assert.NotEmpty(t, category.Name)
		for _, permission := range category.Permissions {
			assert.True(t, IsKnownScope(permission.Scope), "catalogue scope %q must be known", permission.Scope)
		}
	}
}
