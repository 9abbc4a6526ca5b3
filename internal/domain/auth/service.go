package auth

import (
	"context"

	"github.com/crewcall/crewcall-backend-go/internal/domain/employee"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest, session SessionTrackingRequest) (TokenResponse, error)
	// LoginWithGoogle signs in an employee whose account email matches the
	// verified Google email. Unknown emails are rejected; accounts are only
	// ever created by an admin.
	LoginWithGoogle(ctx context.Context, email, googleID string, session SessionTrackingRequest) (TokenResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	// Me returns the calling employee's own profile.
	Me(ctx context.Context, employeeID string) (employee.EmployeeResponse, error)
}
