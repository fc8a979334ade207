package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/api/dto"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/api/handlers"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/api/middleware"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/auth"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/database/models"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/mailer"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/otp"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/testutil"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/users"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type captureMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (m *captureMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

var (
	codePattern  = regexp.MustCompile(`>(\d{4})<`)
	resetPattern = regexp.MustCompile(`/reset-password/([A-Za-z0-9_\-.]+)"`)
)

func (m *captureMailer) match(t *testing.T, re *regexp.Regexp) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent, "no email sent")
	match := re.FindStringSubmatch(m.sent[len(m.sent)-1].HTML)
	require.Len(t, match, 2)
	return match[1]
}

func (m *captureMailer) lastCode(t *testing.T) int {
	t.Helper()
	code, err := strconv.Atoi(m.match(t, codePattern))
	require.NoError(t, err)
	return code
}

type authFixture struct {
	router *chi.Mux
	db     *gorm.DB
	mail   *captureMailer
	tokens *auth.JWTService
	clock  *testutil.Clock
}

func setupAuthTestRouter(t *testing.T) *authFixture {
	t.Helper()

	db := testutil.SetupTestDB(t)
	clock := testutil.NewClock(time.Now().UTC().Truncate(time.Second))
	mail := &captureMailer{}
	tokens := auth.NewJWTService("test-secret", 0)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	denylist := auth.NewDenylist(client)

	authService := auth.NewService(auth.ServiceConfig{
		Users:       users.NewStore(db),
		Codes:       otp.NewDBStore(db, 10*time.Minute).WithClock(clock.Now),
		Tokens:      tokens,
		Resets:      auth.NewResetTokenIssuer("test-secret", 15*time.Minute).WithClock(clock.Now),
		Mailer:      mail,
		Revoker:     denylist,
		FrontendURL: "https://kindness.example",
	})
	handler := handlers.NewAuthHandler(authService)

	r := chi.NewRouter()
	r.Post("/signup", handler.Signup)
	r.Post("/login", handler.Login)
	r.Post("/admin-login", handler.AdminLogin)
	r.Post("/send-otp", handler.SendOTP)
	r.Post("/verify-otp", handler.VerifyOTP)
	r.Post("/forgot-password", handler.ForgotPassword)
	r.Post("/reset-password/{token}", handler.ResetPassword)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(tokens, denylist))
		r.Post("/logout", handler.Logout)
		r.Get("/me", handler.Me)
	})

	return &authFixture{router: r, db: db, mail: mail, tokens: tokens, clock: clock}
}

func (f *authFixture) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, testutil.AuthenticatedRequest(t, method, path, body, token))
	return rr
}

func TestAuthHandler_SignupAndVerify(t *testing.T) {
	f := setupAuthTestRouter(t)

	rr := f.do(t, "POST", "/signup", map[string]string{"name": "A", "email": "a@x.com", "password": "p"}, "")
	testutil.AssertStatus(t, rr, http.StatusOK)

	var signup auth.SignupResponse
	testutil.ParseJSONResponse(t, rr, &signup)
	assert.NotEmpty(t, signup.Message)
	assert.Equal(t, "a@x.com", signup.User.Email)
	assert.False(t, signup.User.EmailVerified)
	assert.NotContains(t, rr.Body.String(), "token")
	assert.NotContains(t, rr.Body.String(), "password")

	code := f.mail.lastCode(t)
	wrong := 1000 + (code-1000+1)%9000

	rr = f.do(t, "POST", "/verify-otp", map[string]interface{}{"email": "a@x.com", "otp": wrong}, "")
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)

	rr = f.do(t, "POST", "/verify-otp", map[string]interface{}{"email": "a@x.com", "otp": code}, "")
	testutil.AssertStatus(t, rr, http.StatusOK)

	var verified auth.AuthResponse
	testutil.ParseJSONResponse(t, rr, &verified)
	require.NotEmpty(t, verified.Token)
	assert.True(t, verified.User.EmailVerified)

	claims, err := f.tokens.ValidateToken(verified.Token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "A", claims.Name)
	assert.Equal(t, verified.User.ID, claims.UserID)

	// the code is gone once used
	rr = f.do(t, "POST", "/verify-otp", map[string]interface{}{"email": "a@x.com", "otp": code}, "")
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}

func TestAuthHandler_SignupValidation(t *testing.T) {
	f := setupAuthTestRouter(t)

	bodies := []map[string]string{
		{"email": "a@x.com", "password": "p"},
		{"name": "A", "password": "p"},
		{"name": "A", "email": "a@x.com"},
	}
	for _, body := range bodies {
		rr := f.do(t, "POST", "/signup", body, "")
		testutil.AssertStatus(t, rr, http.StatusBadRequest)

		var resp dto.ErrorResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "Validation failed", resp.Error)
		assert.NotEmpty(t, resp.Details)
	}

	var count int64
	require.NoError(t, f.db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAuthHandler_SignupDuplicate(t *testing.T) {
	f := setupAuthTestRouter(t)
	body := map[string]string{"name": "A", "email": "a@x.com", "password": "p"}

	testutil.AssertStatus(t, f.do(t, "POST", "/signup", body, ""), http.StatusOK)
	rr := f.do(t, "POST", "/signup", body, "")
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	assert.Contains(t, rr.Body.String(), "User already exists")

	var count int64
	require.NoError(t, f.db.Model(&models.User{}).Where("email = ?", "a@x.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAuthHandler_Login(t *testing.T) {
	f := setupAuthTestRouter(t)
	user := testutil.CreateTestUser(t, f.db, models.RoleUser)

	t.Run("successful login", func(t *testing.T) {
		rr := f.do(t, "POST", "/login", map[string]string{"email": user.Email, "password": testutil.TestPassword}, "")
		testutil.AssertStatus(t, rr, http.StatusOK)

		var resp auth.AuthResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, user.Email, resp.User.Email)
		assert.NotContains(t, rr.Body.String(), user.PasswordHash)
	})

	t.Run("wrong password", func(t *testing.T) {
		rr := f.do(t, "POST", "/login", map[string]string{"email": user.Email, "password": "wrong"}, "")
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})

	t.Run("unknown email", func(t *testing.T) {
		rr := f.do(t, "POST", "/login", map[string]string{"email": "nobody@example.com", "password": "wrong"}, "")
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/login", nil)
		rr := httptest.NewRecorder()
		f.router.ServeHTTP(rr, req)
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})

	t.Run("disabled account", func(t *testing.T) {
		disabled := testutil.CreateTestUser(t, f.db, models.RoleUser)
		require.NoError(t, f.db.Model(disabled).Update("is_active", false).Error)

		rr := f.do(t, "POST", "/login", map[string]string{"email": disabled.Email, "password": testutil.TestPassword}, "")
		testutil.AssertStatus(t, rr, http.StatusForbidden)
	})
}

func TestAuthHandler_AdminLogin(t *testing.T) {
	f := setupAuthTestRouter(t)
	admin := testutil.CreateTestUser(t, f.db, models.RoleAdmin)
	member := testutil.CreateTestUser(t, f.db, models.RoleUser)

	rr := f.do(t, "POST", "/admin-login", map[string]string{"email": admin.Email, "password": testutil.TestPassword}, "")
	testutil.AssertStatus(t, rr, http.StatusOK)

	rr = f.do(t, "POST", "/admin-login", map[string]string{"email": member.Email, "password": testutil.TestPassword}, "")
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)
}

func TestAuthHandler_SendOTP(t *testing.T) {
	f := setupAuthTestRouter(t)
	user := testutil.CreateTestUser(t, f.db, models.RoleUser)

	rr := f.do(t, "POST", "/send-otp", map[string]string{"email": user.Email}, "")
	testutil.AssertStatus(t, rr, http.StatusOK)
	assert.NotZero(t, f.mail.lastCode(t))

	rr = f.do(t, "POST", "/send-otp", map[string]string{"email": "nobody@example.com"}, "")
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}

func TestAuthHandler_PasswordReset(t *testing.T) {
	f := setupAuthTestRouter(t)
	user := testutil.CreateTestUser(t, f.db, models.RoleUser)

	rr := f.do(t, "POST", "/forgot-password", map[string]string{"email": "nobody@example.com"}, "")
	testutil.AssertStatus(t, rr, http.StatusNotFound)

	rr = f.do(t, "POST", "/forgot-password", map[string]string{"email": user.Email}, "")
	testutil.AssertStatus(t, rr, http.StatusOK)
	first := f.mail.match(t, resetPattern)

	rr = f.do(t, "POST", "/forgot-password", map[string]string{"email": user.Email}, "")
	testutil.AssertStatus(t, rr, http.StatusOK)
	second := f.mail.match(t, resetPattern)

	rr = f.do(t, "POST", "/reset-password/"+second, map[string]string{"password": "n3w-password"}, "")
	testutil.AssertStatus(t, rr, http.StatusOK)

	// the earlier link died with the old password
	rr = f.do(t, "POST", "/reset-password/"+first, map[string]string{"password": "another"}, "")
	testutil.AssertStatus(t, rr, http.StatusBadRequest)

	rr = f.do(t, "POST", "/login", map[string]string{"email": user.Email, "password": "n3w-password"}, "")
	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestAuthHandler_PasswordResetExpired(t *testing.T) {
	f := setupAuthTestRouter(t)
	user := testutil.CreateTestUser(t, f.db, models.RoleUser)

	testutil.AssertStatus(t, f.do(t, "POST", "/forgot-password", map[string]string{"email": user.Email}, ""), http.StatusOK)
	token := f.mail.match(t, resetPattern)

	f.clock.Advance(16 * time.Minute)

	rr := f.do(t, "POST", "/reset-password/"+token, map[string]string{"password": "n3w-password"}, "")
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	assert.Contains(t, rr.Body.String(), "expired")
}

func TestAuthHandler_MeAndLogout(t *testing.T) {
	f := setupAuthTestRouter(t)
	user := testutil.CreateTestUser(t, f.db, models.RoleUser)

	token, err := f.tokens.GenerateToken(user)
	require.NoError(t, err)

	testutil.AssertStatus(t, f.do(t, "GET", "/me", nil, ""), http.StatusUnauthorized)
	testutil.AssertStatus(t, f.do(t, "GET", "/me", nil, token+"x"), http.StatusUnauthorized)

	rr := f.do(t, "GET", "/me", nil, token)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var profile map[string]interface{}
	testutil.ParseJSONResponse(t, rr, &profile)
	assert.Equal(t, user.Email, profile["email"])
	assert.Equal(t, user.Name, profile["name"])
	assert.NotContains(t, profile, "password_hash")
	assert.NotContains(t, profile, "phone")

	testutil.AssertStatus(t, f.do(t, "POST", "/logout", nil, token), http.StatusOK)
	testutil.AssertStatus(t, f.do(t, "GET", "/me", nil, token), http.StatusUnauthorized)
}
