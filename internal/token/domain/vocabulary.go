package domain

// PermissionCategory groups related permissions under a resource name.
type PermissionCategory struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Permissions []Permission `json:"permissions"`
}

// Permission is a single grantable scope with display metadata.
type Permission struct {
	Scope       string `json:"scope"`
	Description string `json:"description"`
	Example     string `json:"example"`
}

// AllPermissions returns the closed permission catalogue. Token creation only
// accepts scopes from this list.
func AllPermissions() []PermissionCategory {
	return []PermissionCategory{
		{
			Name:        "storage",
			Description: "Object storage permissions",
			Permissions: []Permission{
				{Scope: "storage:read", Description: "Read stored objects", Example: "download a file, fetch object metadata"},
				{Scope: "storage:write", Description: "Write stored objects", Example: "upload or update a file"},
				{Scope: "storage:delete", Description: "Delete stored objects", Example: "delete a file"},
				{Scope: "storage:list", Description: "List stored objects", Example: "list bucket contents"},
				{Scope: "storage:*", Description: "All storage permissions (wildcard)", Example: "every storage operation"},
			},
		},
		{
			Name:        "cdn",
			Description: "CDN permissions",
			Permissions: []Permission{
				{Scope: "cdn:refresh", Description: "Refresh CDN cache", Example: "refresh cached URLs"},
				{Scope: "cdn:purge", Description: "Purge CDN cache", Example: "purge a directory from cache"},
				{Scope: "cdn:prefetch", Description: "Prefetch to CDN", Example: "prefetch resources to edge nodes"},
				{Scope: "cdn:*", Description: "All CDN permissions (wildcard)", Example: "every CDN operation"},
			},
		},
		{
			Name:        "user",
			Description: "User management permissions",
			Permissions: []Permission{
				{Scope: "user:read", Description: "Read user information", Example: "view user details"},
				{Scope: "user:write", Description: "Modify user information", Example: "update a user profile"},
				{Scope: "user:delete", Description: "Delete users", Example: "remove a user account"},
				{Scope: "user:*", Description: "All user permissions (wildcard)", Example: "every user operation"},
			},
		},
		{
			Name:        "token",
			Description: "Token management permissions",
			Permissions: []Permission{
				{Scope: "token:read", Description: "Read token information", Example: "list tokens, view details"},
				{Scope: "token:write", Description: "Create and modify tokens", Example: "create a token, toggle its status"},
				{Scope: "token:delete", Description: "Delete tokens", Example: "revoke a token"},
				{Scope: "token:*", Description: "All token permissions (wildcard)", Example: "every token operation"},
			},
		},
		{
			Name:        "global",
			Description: "Global permissions",
			Permissions: []Permission{
				{Scope: GlobalScope, Description: "All permissions (global wildcard)", Example: "every operation in the system"},
			},
		},
	}
}

// knownScopes is the flattened catalogue used for creation-time validation.
var knownScopes = func() map[string]struct{} {
	scopes := make(map[string]struct{})
	for _, category := range AllPermissions() {
		for _, permission := range category.Permissions {
			scopes[permission.Scope] = struct{}{}
		}
	}
	return scopes
}()

// IsKnownScope reports whether the scope appears in the permission catalogue.
func IsKnownScope(scope string) bool {
	_, ok := knownScopes[scope]
	return ok
}

// ValidateScopes checks that the scope set is non-empty and every entry is a
// catalogue scope. Returns ErrInvalidScope otherwise.
func ValidateScopes(scopes []string) error {
	if len(scopes) == 0 {
		return ErrInvalidScope
	}
	for _, scope := range scopes {
		if !IsKnownScope(scope) {
			return ErrInvalidScope
		}
	}
	return nil
}
