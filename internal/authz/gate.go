// Package authz decides whether a principal may access a dashboard route.
package authz

import (
	"strings"

	"github.com/eduprima/eduprima-api/internal/identity"
)

// TutorDatabasePrefix is the dashboard subtree granted to tutor database managers.
const TutorDatabasePrefix = "/eduprima/main/ops/em/matchmaking/database-tutor"

// rolePrefixes maps each role to the route subtrees it may access.
// Read-only after startup. Roles absent from the table are denied.
var rolePrefixes = map[identity.Role][]string{
	identity.RoleDatabaseTutorManager: {TutorDatabasePrefix},
}

// Authorize reports whether the principal may access the given path.
// A nil principal is denied, super admins are allowed everywhere, and any
// role without an entry in the rule table is denied.
func Authorize(principal *identity.Principal, path string) bool {
	if principal == nil {
		return false
	}
	if principal.Role == identity.RoleSuperAdmin {
		return true
	}
	prefixes, ok := rolePrefixes[principal.Role]
	if !ok {
		return false
	}
	cleaned := cleanPath(path)
	for _, prefix := range prefixes {
		if withinSubtree(cleaned, prefix) {
			return true
		}
	}
	return false
}

// withinSubtree matches on segment boundaries so that a sibling route which
// merely embeds the prefix as a substring does not pass.
func withinSubtree(path, prefix string) bool {
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}

func cleanPath(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	return strings.TrimSuffix(path, "/")
}
