// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"

	validation "github.com/jellydator/validation"
)

// scopeRegex matches permission strings: "resource:action", a wildcard form
// "resource:*", or the global wildcard "*".
var scopeRegex = regexp.MustCompile(`^(\*|[a-z][a-z0-9_-]*:(\*|[a-z][a-z0-9_-]*))$`)

// ScopeFormat validates that a string is a well-formed permission scope.
// Membership in the scope vocabulary is checked separately at token creation.
var ScopeFormat = validation.NewStringRuleWithError(
	func(s string) bool {
		return scopeRegex.MatchString(s)
	},
	validation.NewError("validation_scope_format", "must be a scope like \"storage:read\", \"storage:*\" or \"*\""),
)
