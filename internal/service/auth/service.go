package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/crewcall/crewcall-backend-go/internal/domain/audit"
	"github.com/crewcall/crewcall-backend-go/internal/domain/auth"
	"github.com/crewcall/crewcall-backend-go/internal/domain/employee"
	"github.com/crewcall/crewcall-backend-go/internal/pkg/database"
	"github.com/crewcall/crewcall-backend-go/internal/pkg/jwt"
	"github.com/crewcall/crewcall-backend-go/internal/repository/postgresql"
	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// identityReadTimeout bounds a single profile lookup in Me. The lookup is
// idempotent, so a timed-out attempt gets exactly one retry.
const identityReadTimeout = 12 * time.Second

type AuthServiceImpl struct {
	db           *database.DB
	employeeRepo employee.EmployeeRepository
	jwtService   jwt.Service
	jwtRepo      postgresql.JWTRepository
	auditService audit.Service
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	emp, err := a.employeeRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get employee by email: %w", err)
	}

	// Accounts provisioned for Google sign-in carry no password hash and
	// cannot log in with a password.
	if emp.PasswordHash == "" {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	if !emp.IsActive {
		return auth.TokenResponse{}, auth.ErrAccountInactive
	}

	resp, err := a.issueSession(ctx, emp, session)
	if err != nil {
		return auth.TokenResponse{}, err
	}

	a.auditService.Record(ctx, audit.RecordRequest{
		ActorID:    emp.ID,
		Action:     audit.ActionLogin,
		EntityType: "session",
		Detail: map[string]interface{}{
			"method":     "password",
			"ip_address": session.IPAddress,
			"user_agent": session.UserAgent,
		},
	})

	return resp, nil
}

// LoginWithGoogle implements auth.AuthService. Google sign-in is invite
// only: the verified email must already belong to an employee record, and
// no account is ever created here.
func (a *AuthServiceImpl) LoginWithGoogle(ctx context.Context, email string, googleID string, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	emp, err := a.employeeRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.TokenResponse{}, auth.ErrGoogleAccountNotInvited
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get employee by email: %w", err)
	}

	if !emp.IsActive {
		return auth.TokenResponse{}, auth.ErrAccountInactive
	}

	resp, err := a.issueSession(ctx, emp, session)
	if err != nil {
		return auth.TokenResponse{}, err
	}

	a.auditService.Record(ctx, audit.RecordRequest{
		ActorID:    emp.ID,
		Action:     audit.ActionLogin,
		EntityType: "session",
		Detail: map[string]interface{}{
			"method":     "google",
			"google_id":  googleID,
			"ip_address": session.IPAddress,
			"user_agent": session.UserAgent,
		},
	})

	return resp, nil
}

// issueSession generates the token pair and stores the refresh token. The
// refresh token only becomes usable once its row is committed, so issuing
// and storing run as one transaction.
func (a *AuthServiceImpl) issueSession(ctx context.Context, emp employee.Employee, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	var resp auth.TokenResponse

	err := postgresql.WithTransaction(ctx, a.db, func(tx pgx.Tx) error {
		txCtx := postgresql.ContextWithTx(ctx, tx)

		accessToken, accessExpiresAt, err := a.jwtService.GenerateAccessToken(emp.ID, emp.Email, emp.Role)
		if err != nil {
			return fmt.Errorf("failed to create access token: %w", err)
		}

		refreshToken, refreshExpiresAt, err := a.jwtService.GenerateRefreshToken(emp.ID)
		if err != nil {
			return fmt.Errorf("failed to create refresh token: %w", err)
		}

		if err := a.jwtRepo.CreateRefreshToken(txCtx, emp.ID, refreshToken, refreshExpiresAt, session); err != nil {
			return fmt.Errorf("failed to save refresh token: %w", err)
		}

		resp = auth.TokenResponse{
			AccessToken:           accessToken,
			AccessTokenExpiresIn:  accessExpiresAt,
			RefreshToken:          refreshToken,
			RefreshTokenExpiresIn: refreshExpiresAt,
		}
		return nil
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	return resp, nil
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.AccessTokenResponse{}, err
	}

	token, err := jwtauth.VerifyToken(a.jwtService.JWTAuth(), req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	claims, err := token.AsMap(ctx)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != "refresh" {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	employeeID, ok := claims["user_id"].(string)
	if !ok || employeeID == "" {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	revoked, err := a.jwtRepo.IsRefreshTokenRevoked(ctx, req.RefreshToken)
	if err != nil {
		// A signed token with no stored row was never issued here.
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.AccessTokenResponse{}, auth.ErrInvalidToken
		}
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to check refresh token: %w", err)
	}
	if revoked {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	emp, err := a.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.AccessTokenResponse{}, auth.ErrInvalidToken
		}
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	if !emp.IsActive {
		return auth.AccessTokenResponse{}, auth.ErrAccountInactive
	}

	accessToken, expiresAt, err := a.jwtService.GenerateAccessToken(emp.ID, emp.Email, emp.Role)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	return auth.AccessTokenResponse{
		AccessToken:          accessToken,
		AccessTokenExpiresIn: expiresAt,
	}, nil
}

// Logout implements auth.AuthService. Revoking is idempotent and succeeds
// even for expired or never-issued tokens, so a client can always clear
// its session.
func (a *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if err := a.jwtRepo.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	// The audit entry needs an actor, so it is only written when the token
	// still decodes.
	if token, err := jwtauth.VerifyToken(a.jwtService.JWTAuth(), refreshToken); err == nil {
		if claims, err := token.AsMap(ctx); err == nil {
			if employeeID, ok := claims["user_id"].(string); ok && employeeID != "" {
				a.auditService.Record(ctx, audit.RecordRequest{
					ActorID:    employeeID,
					Action:     audit.ActionLogout,
					EntityType: "session",
				})
			}
		}
	}

	return nil
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context, employeeID string) (employee.EmployeeResponse, error) {
	emp, err := a.readIdentity(ctx, employeeID)
	if errors.Is(err, context.DeadlineExceeded) {
		emp, err = a.readIdentity(ctx, employeeID)
	}
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return toEmployeeResponse(emp), nil
}

func (a *AuthServiceImpl) readIdentity(ctx context.Context, employeeID string) (employee.Employee, error) {
	readCtx, cancel := context.WithTimeout(ctx, identityReadTimeout)
	defer cancel()

	return a.employeeRepo.GetByID(readCtx, employeeID)
}

func toEmployeeResponse(emp employee.Employee) employee.EmployeeResponse {
	return employee.EmployeeResponse{
		ID:            emp.ID,
		FullName:      emp.FullName,
		Email:         emp.Email,
		Role:          string(emp.Role),
		Phone:         emp.Phone,
		PayRate:       emp.PayRate,
		PaymentHandle: emp.PaymentHandle,
		IsActive:      emp.IsActive,
		CreatedAt:     emp.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:     emp.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(
	db *database.DB,
	employeeRepo employee.EmployeeRepository,
	jwtService jwt.Service,
	jwtRepo postgresql.JWTRepository,
	auditService audit.Service,
) auth.AuthService {
	return &AuthServiceImpl{
		db:           db,
		employeeRepo: employeeRepo,
		jwtService:   jwtService,
		jwtRepo:      jwtRepo,
		auditService: auditService,
	}
}
