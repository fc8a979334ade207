package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/database/models"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/mailer"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/metrics"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/otp"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/users"
)

var (
	ErrValidation         = errors.New("name, email and password are required")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveUser       = errors.New("user is inactive")
	ErrUnauthorized       = errors.New("unauthorized")
)

type ServiceConfig struct {
	Users       UserStore
	Codes       otp.Store
	Tokens      TokenService
	Resets      *ResetTokenIssuer
	Mailer      mailer.Sender
	Revoker     Revoker // optional
	CodeTTL     time.Duration
	FrontendURL string
	Logger      *slog.Logger
}

// Service drives the account lifecycle: signup, email verification, login,
// password reset. Users move Unregistered -> PendingVerification -> Verified,
// with Active/Disabled toggled by admins independently.
type Service struct {
	users       UserStore
	codes       otp.Store
	tokens      TokenService
	resets      *ResetTokenIssuer
	mail        mailer.Sender
	revoker     Revoker
	codeTTL     time.Duration
	frontendURL string
	dummyHash   string
	log         *slog.Logger
}

func NewService(cfg ServiceConfig) *Service {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	codeTTL := cfg.CodeTTL
	if codeTTL <= 0 {
		codeTTL = otp.DefaultTTL
	}
	return &Service{
		users:       cfg.Users,
		codes:       cfg.Codes,
		tokens:      cfg.Tokens,
		resets:      cfg.Resets,
		mail:        cfg.Mailer,
		revoker:     cfg.Revoker,
		codeTTL:     codeTTL,
		frontendURL: strings.TrimRight(cfg.FrontendURL, "/"),
		dummyHash:   newDummyHash(),
		log:         log,
	}
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

// PublicUser is the profile returned to clients.
type PublicUser struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	IsActive      bool      `json:"is_active"`
	EmailVerified bool      `json:"email_verified"`
	IsVolunteer   bool      `json:"is_volunteer"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewPublicUser(u *models.User) *PublicUser {
	return &PublicUser{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Role:          u.Role,
		IsActive:      u.IsActive,
		EmailVerified: u.EmailVerified,
		IsVolunteer:   u.IsVolunteer,
		CreatedAt:     u.CreatedAt,
	}
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  *PublicUser `json:"user"`
}

type SignupResponse struct {
	Message string      `json:"message"`
	User    *PublicUser `json:"user"`
}

// IsAdmin reports whether user may use admin-only operations.
func IsAdmin(user *models.User) bool {
	return user != nil && user.Role == models.RoleAdmin
}

func (s *Service) Signup(ctx context.Context, input SignupInput) (resp *SignupResponse, err error) {
	defer func() { metrics.RecordAuthEvent("signup", err) }()

	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return nil, ErrValidation
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user, err := s.users.Create(ctx, input.Email, input.Name, hash)
	if err != nil {
		if errors.Is(err, users.ErrDuplicateEmail) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	s.log.InfoContext(ctx, "user signed up", "user_id", user.ID)

	if err := s.sendCode(ctx, user); err != nil {
		return nil, err
	}

	return &SignupResponse{
		Message: "Signup successful. Check your email for the verification code.",
		User:    NewPublicUser(user),
	}, nil
}

// SendOTP issues a fresh verification code to an existing account.
func (s *Service) SendOTP(ctx context.Context, email string) (err error) {
	defer func() { metrics.RecordAuthEvent("send_otp", err) }()

	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.sendCode(ctx, user)
}

func (s *Service) VerifyOTP(ctx context.Context, email string, code int) (resp *AuthResponse, err error) {
	defer func() { metrics.RecordAuthEvent("verify_otp", err) }()

	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := s.codes.Consume(ctx, email, code); err != nil {
		return nil, err
	}

	if err := s.users.SetVerified(ctx, email); err != nil {
		return nil, fmt.Errorf("marking user verified: %w", err)
	}
	user.EmailVerified = true
	s.log.InfoContext(ctx, "email verified", "user_id", user.ID)

	return s.issue(user)
}

func (s *Service) Login(ctx context.Context, input LoginInput) (resp *AuthResponse, err error) {
	defer func() { metrics.RecordAuthEvent("login", err) }()

	user, err := s.authenticate(ctx, input)
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "user logged in", "user_id", user.ID)
	return s.issue(user)
}

// AdminLogin is Login restricted to admin accounts.
func (s *Service) AdminLogin(ctx context.Context, input LoginInput) (resp *AuthResponse, err error) {
	defer func() { metrics.RecordAuthEvent("admin_login", err) }()

	user, err := s.authenticate(ctx, input)
	if err != nil {
		return nil, err
	}
	if !IsAdmin(user) {
		return nil, ErrUnauthorized
	}
	s.log.InfoContext(ctx, "admin logged in", "user_id", user.ID)
	return s.issue(user)
}

func (s *Service) authenticate(ctx context.Context, input LoginInput) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			CheckPassword(input.Password, s.dummyHash)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !CheckPassword(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	return user, nil
}

// ForgotPassword emails a reset link. Unknown emails get ErrUserNotFound.
func (s *Service) ForgotPassword(ctx context.Context, email string) (err error) {
	defer func() { metrics.RecordAuthEvent("forgot_password", err) }()

	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, err := s.resets.Issue(user)
	if err != nil {
		return fmt.Errorf("issuing reset token: %w", err)
	}

	msg, err := mailer.ResetPasswordEmail(user.Email, user.Name, s.frontendURL+"/reset-password/"+token, s.resets.TTL())
	if err != nil {
		return err
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		return fmt.Errorf("sending reset email: %w", err)
	}

	s.log.InfoContext(ctx, "password reset requested", "user_id", user.ID)
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) (err error) {
	defer func() { metrics.RecordAuthEvent("reset_password", err) }()

	if newPassword == "" {
		return ErrValidation
	}

	claims, err := s.resets.Decode(token)
	if err != nil {
		return err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if _, err := s.resets.Verify(token, user); err != nil {
		return err
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}

	s.log.InfoContext(ctx, "password reset", "user_id", user.ID)
	return nil
}

// Logout revokes the session token. Without a revoker it is a no-op.
func (s *Service) Logout(ctx context.Context, claims *Claims) error {
	if s.revoker == nil {
		return nil
	}
	return s.revoker.Revoke(ctx, claims)
}

func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) findByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) sendCode(ctx context.Context, user *models.User) error {
	code, err := s.codes.Issue(ctx, user.Email)
	if err != nil {
		return fmt.Errorf("issuing verification code: %w", err)
	}
	metrics.RecordCodeIssued()

	msg, err := mailer.VerificationEmail(user.Email, user.Name, code, s.codeTTL)
	if err != nil {
		return err
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		return fmt.Errorf("sending verification email: %w", err)
	}
	return nil
}

func (s *Service) issue(user *models.User) (*AuthResponse, error) {
	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}
	return &AuthResponse{Token: token, User: NewPublicUser(user)}, nil
}
