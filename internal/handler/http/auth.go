package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/crewcall/crewcall-backend-go/internal/domain/auth"
	"github.com/crewcall/crewcall-backend-go/internal/handler/http/response"
	"github.com/crewcall/crewcall-backend-go/internal/pkg/jwt"
	"github.com/crewcall/crewcall-backend-go/internal/pkg/oauth"
	"github.com/go-chi/jwtauth/v5"
)

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	LoginWithGoogle(w http.ResponseWriter, r *http.Request)
	OAuthCallbackGoogle(w http.ResponseWriter, r *http.Request)
	RefreshToken(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	jwtService  jwt.Service
	authService auth.AuthService
	// googleService is nil when Google sign-in is not configured.
	googleService oauth.GoogleService
	frontendURL   string
}

// Login implements AuthHandler.
func (a *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		slog.Error("Login decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	session := auth.SessionTrackingRequest{
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}
	tokenResponse, err := a.authService.Login(r.Context(), loginReq, session)
	if err != nil {
		slog.Error("Login service error", "error", err)
		response.HandleError(w, err)
		return
	}

	http.SetCookie(w, a.jwtService.RefreshTokenCookie(tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn))
	response.SuccessWithMessage(w, "Logged in successfully", tokenResponse)
}

// LoginWithGoogle implements AuthHandler. It hands the browser to Google
// with a state cookie scoped to the callback path.
func (a *AuthHandlerImpl) LoginWithGoogle(w http.ResponseWriter, r *http.Request) {
	if a.googleService == nil {
		response.HandleError(w, auth.ErrGoogleSignInDisabled)
		return
	}

	state := a.googleService.GenerateState(r.UserAgent())
	http.SetCookie(w, &http.Cookie{
		Name:     "state",
		Value:    state,
		Path:     "/api/v1/auth/oauth/callback/google",
		Expires:  time.Now().Add(5 * time.Minute),
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, a.googleService.RedirectURL(state), http.StatusTemporaryRedirect)
}

// OAuthCallbackGoogle implements AuthHandler. Failures land back on the
// frontend with an error code instead of a bare API response, since the
// browser arrives here mid-redirect.
func (a *AuthHandlerImpl) OAuthCallbackGoogle(w http.ResponseWriter, r *http.Request) {
	if a.googleService == nil {
		response.HandleError(w, auth.ErrGoogleSignInDisabled)
		return
	}

	redirectWithError := func(errorMsg string) {
		redirectURL := fmt.Sprintf("%s/auth/callback/google?error=%s", a.frontendURL, url.QueryEscape(errorMsg))
		http.Redirect(w, r, redirectURL, http.StatusTemporaryRedirect)
	}

	if errorValue := r.URL.Query().Get("error"); errorValue != "" {
		slog.Error("google oauth callback returned an error", "error", errorValue)
		redirectWithError(errorValue)
		return
	}

	stateCookie, err := r.Cookie("state")
	if err != nil || stateCookie.Value == "" {
		slog.Error("state cookie missing on oauth callback")
		redirectWithError("state_cookie_missing")
		return
	}
	if stateParam := r.URL.Query().Get("state"); stateParam != stateCookie.Value {
		slog.Error("state mismatch on oauth callback")
		redirectWithError("state_mismatch")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		slog.Error("code missing on oauth callback")
		redirectWithError("code_empty")
		return
	}

	token, err := a.googleService.VerifyToken(r.Context(), code)
	if err != nil {
		slog.Error("failed to exchange oauth code", "error", err)
		redirectWithError("token_verification_failed")
		return
	}

	userGoogle, err := a.googleService.VerifyUser(r.Context(), token)
	if err != nil {
		slog.Error("failed to fetch google user info", "error", err)
		redirectWithError("user_verification_failed")
		return
	}
	if !userGoogle.VerifiedEmail {
		slog.Error("google account email is not verified", "email", userGoogle.Email)
		redirectWithError("email_not_verified")
		return
	}

	session := auth.SessionTrackingRequest{
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}
	tokenResponse, err := a.authService.LoginWithGoogle(r.Context(), userGoogle.Email, userGoogle.GoogleID, session)
	if err != nil {
		slog.Error("google sign-in rejected", "error", err)
		if errors.Is(err, auth.ErrGoogleAccountNotInvited) {
			redirectWithError("account_not_invited")
			return
		}
		redirectWithError("login_failed")
		return
	}

	http.SetCookie(w, a.jwtService.RefreshTokenCookie(tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn))

	redirectURL := fmt.Sprintf("%s/auth/callback/google?access_token=%s&expires_in=%d",
		a.frontendURL,
		url.QueryEscape(tokenResponse.AccessToken),
		tokenResponse.AccessTokenExpiresIn,
	)
	http.Redirect(w, r, redirectURL, http.StatusTemporaryRedirect)
}

// RefreshToken implements AuthHandler. The cookie wins over the body so
// browser clients never have to hold the refresh token in script.
func (a *AuthHandlerImpl) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var refreshReq auth.RefreshTokenRequest

	if cookie, err := r.Cookie("refresh_token"); err == nil && cookie.Value != "" {
		refreshReq.RefreshToken = cookie.Value
	} else if err := json.NewDecoder(r.Body).Decode(&refreshReq); err != nil {
		slog.Error("RefreshToken decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	tokenResponse, err := a.authService.RefreshToken(r.Context(), refreshReq)
	if err != nil {
		slog.Error("RefreshToken service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, tokenResponse)
}

// Logout implements AuthHandler.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("refresh_token")
	if err != nil || cookie.Value == "" {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	if err := a.authService.Logout(r.Context(), cookie.Value); err != nil {
		response.HandleError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    "",
		Path:     "/api/v1/auth",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteStrictMode,
	})
	response.SuccessWithMessage(w, "Logged out successfully", nil)
}

// Me implements AuthHandler.
func (a *AuthHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}
	employeeID, ok := claims["user_id"].(string)
	if !ok || employeeID == "" {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	profile, err := a.authService.Me(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, profile)
}

func NewAuthHandler(jwtService jwt.Service, authService auth.AuthService, googleService oauth.GoogleService, frontendURL string) AuthHandler {
	return &AuthHandlerImpl{
		jwtService:    jwtService,
		authService:   authService,
		googleService: googleService,
		frontendURL:   frontendURL,
	}
}
