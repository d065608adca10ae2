// Package http provides HTTP middleware and utilities for authentication.
package http

import (
	"context"

	accountDomain "github.com/allisson/tokengate/internal/account/domain"
)

// accountKey is a context key type for storing authenticated accounts.
type accountKey struct{}

// WithAccount stores an HMAC-authenticated account in the context.
// Called by HMACAuthMiddleware after successful signature verification.
func WithAccount(ctx context.Context, account *accountDomain.Account) context.Context {
	return context.WithValue(ctx, accountKey{}, account)
}

// GetAccount retrieves the authenticated account from the context.
// Returns (account, true) if present, or (nil, false) if no account was set.
func GetAccount(ctx context.Context) (*accountDomain.Account, bool) {
	account, ok := ctx.Value(accountKey{}).(*accountDomain.Account)
	return account, ok
}
