package domain

import "strings"

// GlobalScope grants every permission.
const GlobalScope = "*"

// ScopeSet is the set of permission scopes granted to a token.
type ScopeSet []string

// Satisfies reports whether the set grants the required scope.
//
// Matching rules, in order:
//  1. An empty required scope is always granted.
//  2. The global wildcard "*" grants everything.
//  3. Exact match: "storage:read" grants "storage:read".
//  4. Suffix wildcard: "storage:*" grants any scope with the "storage:" prefix.
//
// The function is total: any pair of strings yields a decision, never an error.
func (s ScopeSet) Satisfies(required string) bool {
	if required == "" {
		return true
	}

	for _, scope := range s {
		if scope == GlobalScope {
			return true
		}

		if scope == required {
			return true
		}

		if strings.HasSuffix(scope, ":*") {
			prefix := strings.TrimSuffix(scope, "*")
			if strings.HasPrefix(required, prefix) {
				return true
			}
		}
	}

	return false
}

// SatisfiesAll reports whether every required scope is granted.
func (s ScopeSet) SatisfiesAll(required []string) bool {
	for _, r := range required {
		if !s.Satisfies(r) {
			return false
		}
	}
	return true
}

// Missing returns the required scopes the set does not grant.
func (s ScopeSet) Missing(required []string) []string {
	missing := []string{}
	for _, r := range required {
		if !s.Satisfies(r) {
			missing = append(missing, r)
		}
	}
	return missing
}
