package auth

import (
	"log/slog"
	"net/http"

	userdm "github.com/frahmantamala/skill-matrix/internal/core/datamodel/user"
)

// RBACAuthorization holds the route guards. A requirement is satisfied by
// the caller's scalar role, or by a permission granted through any assigned
// role row.
type RBACAuthorization struct {
	logger *slog.Logger
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{logger: logger}
}

func (ra *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok || user == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !user.IsAdmin() {
				ra.logger.WarnContext(r.Context(), "access denied: admin role required",
					"user_id", user.ID, "role", user.Role)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireManager admits managers and admins.
func (ra *RBACAuthorization) RequireManager() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok || user == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !user.IsManager() {
				ra.logger.WarnContext(r.Context(), "access denied: manager role required",
					"user_id", user.ID, "role", user.Role)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRoles admits callers whose scalar role is in the given set.
func (ra *RBACAuthorization) RequireRoles(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok || user == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if _, ok := allowed[user.Role]; !ok {
				ra.logger.WarnContext(r.Context(), "access denied: role not allowed",
					"user_id", user.ID, "role", user.Role, "allowed_roles", roles)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermission admits admins, plus anyone holding one of the given
// permissions through an assigned role.
func (ra *RBACAuthorization) RequirePermission(perms ...userdm.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok || user == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !user.IsAdmin() && !user.HasAnyPermission(perms) {
				ra.logger.WarnContext(r.Context(), "access denied: missing permission",
					"user_id", user.ID, "required_permissions", perms)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
