package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/crewcall/crewcall-backend-go/internal/domain/auth"
	"github.com/crewcall/crewcall-backend-go/internal/domain/employee"
	"github.com/crewcall/crewcall-backend-go/internal/pkg/jwt"
	"github.com/crewcall/crewcall-backend-go/internal/pkg/oauth"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const (
	handlerTestSecret     = "test-secret-key-for-jwt"
	handlerTestAccessExp  = "15m"
	handlerTestRefreshExp = "168h"
	handlerFrontendURL    = "http://localhost:3000"
)

// ===== TEST DOUBLES =====

type fakeAuthService struct {
	loginResp   auth.TokenResponse
	loginErr    error
	lastLogin   auth.LoginRequest
	lastSession auth.SessionTrackingRequest

	googleResp      auth.TokenResponse
	googleErr       error
	lastGoogleEmail string
	lastGoogleID    string

	refreshResp auth.AccessTokenResponse
	refreshErr  error
	lastRefresh string

	logoutErr error
	loggedOut []string

	meResp employee.EmployeeResponse
	meErr  error
	lastMe string
}

func (f *fakeAuthService) Login(ctx context.Context, req auth.LoginRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	f.lastLogin = req
	f.lastSession = session
	return f.loginResp, f.loginErr
}

func (f *fakeAuthService) LoginWithGoogle(ctx context.Context, email, googleID string, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	f.lastGoogleEmail = email
	f.lastGoogleID = googleID
	f.lastSession = session
	return f.googleResp, f.googleErr
}

func (f *fakeAuthService) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	f.lastRefresh = req.RefreshToken
	return f.refreshResp, f.refreshErr
}

func (f *fakeAuthService) Logout(ctx context.Context, refreshToken string) error {
	f.loggedOut = append(f.loggedOut, refreshToken)
	return f.logoutErr
}

func (f *fakeAuthService) Me(ctx context.Context, employeeID string) (employee.EmployeeResponse, error) {
	f.lastMe = employeeID
	return f.meResp, f.meErr
}

type fakeGoogleService struct {
	state    string
	token    *oauth2.Token
	tokenErr error
	user     oauth.GoogleInformation
	userErr  error
}

func (f *fakeGoogleService) GenerateState(userAgent string) string {
	return f.state
}

func (f *fakeGoogleService) RedirectURL(state string) string {
	return "https://accounts.google.com/o/oauth2/auth?state=" + url.QueryEscape(state)
}

func (f *fakeGoogleService) VerifyToken(ctx context.Context, code string) (*oauth2.Token, error) {
	return f.token, f.tokenErr
}

func (f *fakeGoogleService) VerifyUser(ctx context.Context, token *oauth2.Token) (oauth.GoogleInformation, error) {
	return f.user, f.userErr
}

// ===== HELPERS =====

func testTokenResponse() auth.TokenResponse {
	return auth.TokenResponse{
		AccessToken:           "new-access-token",
		AccessTokenExpiresIn:  time.Now().Add(15 * time.Minute).Unix(),
		RefreshToken:          "new-refresh-token",
		RefreshTokenExpiresIn: time.Now().Add(168 * time.Hour).Unix(),
	}
}

func newAuthFixture(googleSvc oauth.GoogleService) (*fakeAuthService, AuthHandler) {
	authSvc := &fakeAuthService{}
	jwtSvc := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp, handlerTestRefreshExp)
	return authSvc, NewAuthHandler(jwtSvc, authSvc, googleSvc, handlerFrontendURL)
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

// claimsContext builds the context the token verifier middleware would leave
// behind, for exercising handlers that read claims directly.
func claimsContext(t *testing.T, claims map[string]interface{}) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte(handlerTestSecret), nil)
	token, _, err := ja.Encode(claims)
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

// ===== LOGIN =====

func TestAuthHandler_Login_Success(t *testing.T) {
	authSvc, handler := newAuthFixture(nil)
	authSvc.loginResp = testTokenResponse()

	body, _ := json.Marshal(auth.LoginRequest{Email: "dana@example.com", Password: "password123"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("User-Agent", "Mozilla/5.0 Test Browser")
	req.RemoteAddr = "192.168.1.100:54321"
	w := httptest.NewRecorder()

	handler.Login(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeEnvelope(t, w)
	assert.True(t, resp["success"].(bool))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "new-access-token", data["access_token"])
	assert.Equal(t, "new-refresh-token", data["refresh_token"])

	// Session info travels from the request into the service call.
	assert.Equal(t, "dana@example.com", authSvc.lastLogin.Email)
	assert.Equal(t, "192.168.1.100:54321", authSvc.lastSession.IPAddress)
	assert.Equal(t, "Mozilla/5.0 Test Browser", authSvc.lastSession.UserAgent)

	cookie := findCookie(w.Result().Cookies(), "refresh_token")
	require.NotNil(t, cookie)
	assert.Equal(t, "new-refresh-token", cookie.Value)
	assert.Equal(t, "/api/v1/auth", cookie.Path)
	assert.True(t, cookie.HttpOnly)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	authSvc, handler := newAuthFixture(nil)
	authSvc.loginErr = auth.ErrInvalidCredentials

	body, _ := json.Marshal(auth.LoginRequest{Email: "dana@example.com", Password: "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Login(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decodeEnvelope(t, w)
	assert.False(t, resp["success"].(bool))
}

func TestAuthHandler_Login_InactiveAccount(t *testing.T) {
	authSvc, handler := newAuthFixture(nil)
	authSvc.loginErr = auth.ErrAccountInactive

	body, _ := json.Marshal(auth.LoginRequest{Email: "gone@example.com", Password: "password123"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Login(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthHandler_Login_InvalidJSON(t *testing.T) {
	_, handler := newAuthFixture(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader("invalid json"))
	w := httptest.NewRecorder()

	handler.Login(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ===== GOOGLE SIGN-IN =====

func TestAuthHandler_LoginWithGoogle_Redirect(t *testing.T) {
	googleSvc := &fakeGoogleService{state: "state-123"}
	_, handler := newAuthFixture(googleSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/login/oauth/google", nil)
	w := httptest.NewRecorder()

	handler.LoginWithGoogle(w, req)

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "state-123")

	cookie := findCookie(w.Result().Cookies(), "state")
	require.NotNil(t, cookie)
	assert.Equal(t, "state-123", cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestAuthHandler_LoginWithGoogle_Disabled(t *testing.T) {
	_, handler := newAuthFixture(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/login/oauth/google", nil)
	w := httptest.NewRecorder()

	handler.LoginWithGoogle(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAuthHandler_OAuthCallback_StateMismatch(t *testing.T) {
	googleSvc := &fakeGoogleService{}
	_, handler := newAuthFixture(googleSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/oauth/callback/google?state=tampered&code=abc", nil)
	req.AddCookie(&http.Cookie{Name: "state", Value: "original"})
	w := httptest.NewRecorder()

	handler.OAuthCallbackGoogle(w, req)

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, handlerFrontendURL+"/auth/callback/google?error=state_mismatch", w.Header().Get("Location"))
}

func TestAuthHandler_OAuthCallback_UnverifiedEmailRejected(t *testing.T) {
	googleSvc := &fakeGoogleService{
		token: &oauth2.Token{AccessToken: "google-token"},
		user:  oauth.GoogleInformation{GoogleID: "g-1", Email: "dana@example.com", VerifiedEmail: false},
	}
	_, handler := newAuthFixture(googleSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/oauth/callback/google?state=s1&code=abc", nil)
	req.AddCookie(&http.Cookie{Name: "state", Value: "s1"})
	w := httptest.NewRecorder()

	handler.OAuthCallbackGoogle(w, req)

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "error=email_not_verified")
}

func TestAuthHandler_OAuthCallback_UninvitedAccount(t *testing.T) {
	googleSvc := &fakeGoogleService{
		token: &oauth2.Token{AccessToken: "google-token"},
		user:  oauth.GoogleInformation{GoogleID: "g-1", Email: "stranger@example.com", VerifiedEmail: true},
	}
	authSvc, handler := newAuthFixture(googleSvc)
	authSvc.googleErr = auth.ErrGoogleAccountNotInvited

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/oauth/callback/google?state=s1&code=abc", nil)
	req.AddCookie(&http.Cookie{Name: "state", Value: "s1"})
	w := httptest.NewRecorder()

	handler.OAuthCallbackGoogle(w, req)

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "error=account_not_invited")
}

func TestAuthHandler_OAuthCallback_Success(t *testing.T) {
	googleSvc := &fakeGoogleService{
		token: &oauth2.Token{AccessToken: "google-token"},
		user:  oauth.GoogleInformation{GoogleID: "g-1", Email: "dana@example.com", VerifiedEmail: true},
	}
	authSvc, handler := newAuthFixture(googleSvc)
	authSvc.googleResp = testTokenResponse()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/oauth/callback/google?state=s1&code=abc", nil)
	req.AddCookie(&http.Cookie{Name: "state", Value: "s1"})
	w := httptest.NewRecorder()

	handler.OAuthCallbackGoogle(w, req)

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	location := w.Header().Get("Location")
	assert.Contains(t, location, handlerFrontendURL+"/auth/callback/google?access_token=")
	assert.Contains(t, location, "new-access-token")

	assert.Equal(t, "dana@example.com", authSvc.lastGoogleEmail)
	assert.Equal(t, "g-1", authSvc.lastGoogleID)

	cookie := findCookie(w.Result().Cookies(), "refresh_token")
	require.NotNil(t, cookie)
	assert.Equal(t, "new-refresh-token", cookie.Value)
}

// ===== REFRESH TOKEN =====

func TestAuthHandler_RefreshToken_CookieWinsOverBody(t *testing.T) {
	authSvc, handler := newAuthFixture(nil)
	authSvc.refreshResp = auth.AccessTokenResponse{AccessToken: "rotated-access"}

	body, _ := json.Marshal(auth.RefreshTokenRequest{RefreshToken: "body-token"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", bytes.NewReader(body))
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "cookie-token"})
	w := httptest.NewRecorder()

	handler.RefreshToken(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cookie-token", authSvc.lastRefresh)

	resp := decodeEnvelope(t, w)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "rotated-access", data["access_token"])
}

func TestAuthHandler_RefreshToken_FromBody(t *testing.T) {
	authSvc, handler := newAuthFixture(nil)
	authSvc.refreshResp = auth.AccessTokenResponse{AccessToken: "rotated-access"}

	body, _ := json.Marshal(auth.RefreshTokenRequest{RefreshToken: "body-token"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.RefreshToken(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "body-token", authSvc.lastRefresh)
}

func TestAuthHandler_RefreshToken_InvalidJSON(t *testing.T) {
	_, handler := newAuthFixture(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", strings.NewReader("invalid json"))
	w := httptest.NewRecorder()

	handler.RefreshToken(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_RefreshToken_Revoked(t *testing.T) {
	authSvc, handler := newAuthFixture(nil)
	authSvc.refreshErr = auth.ErrRefreshTokenRevoked

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "revoked-token"})
	w := httptest.NewRecorder()

	handler.RefreshToken(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// ===== LOGOUT =====

func TestAuthHandler_Logout_Success(t *testing.T) {
	authSvc, handler := newAuthFixture(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "live-token"})
	w := httptest.NewRecorder()

	handler.Logout(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"live-token"}, authSvc.loggedOut)

	cookie := findCookie(w.Result().Cookies(), "refresh_token")
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.True(t, cookie.Expires.Before(time.Now()))
}

func TestAuthHandler_Logout_NoCookie(t *testing.T) {
	authSvc, handler := newAuthFixture(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	w := httptest.NewRecorder()

	handler.Logout(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, authSvc.loggedOut)
}

// ===== ME =====

func TestAuthHandler_Me_Success(t *testing.T) {
	authSvc, handler := newAuthFixture(nil)
	authSvc.meResp = employee.EmployeeResponse{ID: "emp-1", FullName: "Dana Admin", Email: "dana@example.com"}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req = req.WithContext(claimsContext(t, map[string]interface{}{"user_id": "emp-1", "type": "access"}))
	w := httptest.NewRecorder()

	handler.Me(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "emp-1", authSvc.lastMe)

	resp := decodeEnvelope(t, w)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "Dana Admin", data["full_name"])
}

func TestAuthHandler_Me_MissingClaims(t *testing.T) {
	_, handler := newAuthFixture(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	w := httptest.NewRecorder()

	handler.Me(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
