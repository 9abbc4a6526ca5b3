package middleware

import (
	"net/http"

	"github.com/crewcall/crewcall-backend-go/internal/domain/auth"
	"github.com/crewcall/crewcall-backend-go/internal/domain/employee"
	"github.com/crewcall/crewcall-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// AdminOnly gates a route on the role claim of the access token.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		role, ok := claims["role"].(string)
		if !ok || role != string(employee.RoleAdmin) {
			response.HandleError(w, auth.ErrAdminPrivilegeRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
