package auth

import "errors"

var (
	ErrInvalidCredentials      = errors.New("invalid email or password")
	ErrAccountInactive         = errors.New("account has been deactivated")
	ErrInvalidToken            = errors.New("invalid or expired token")
	ErrRefreshTokenRevoked     = errors.New("refresh token has been revoked")
	ErrAdminPrivilegeRequired  = errors.New("admin privilege required")
	ErrGoogleSignInDisabled    = errors.New("google sign-in is not configured")
	ErrGoogleAccountNotInvited = errors.New("no account exists for this google email")
)
