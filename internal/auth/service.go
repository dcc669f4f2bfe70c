package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"recordbook/internal/model"
	"recordbook/internal/store"
)

// UserStore is the credential store the service reads and writes.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
}

// Service verifies credentials and issues and verifies session tokens.
// Sessions are stateless: the signed token is the only session artifact, and
// a token stays valid until its expiry regardless of later account changes.
// There is no revocation path; /auth/logout is an acknowledgement only.
type Service struct {
	users      UserStore
	secret     string
	tokenTTL   time.Duration
	bcryptCost int
}

// NewService creates an auth service. An empty secret is allowed here; it is
// reported as a misconfiguration when a token is first needed.
func NewService(users UserStore, secret string, tokenTTL time.Duration, bcryptCost int) *Service {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Service{users: users, secret: secret, tokenTTL: tokenTTL, bcryptCost: bcryptCost}
}

// Result is a successful login or registration: a session token plus a
// projection of the account that never includes the stored hash.
type Result struct {
	Token string
	User  Summary
}

// Summary is the client-facing account projection.
type Summary struct {
	ID      int     `json:"id"`
	StaffID *string `json:"staffId"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Role    string  `json:"role"`
}

// Login verifies an email/password pair and issues a session token.
func (s *Service) Login(ctx context.Context, email, password string) (*Result, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidInput
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Same failure as a wrong password: do not reveal which
			// field was wrong.
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if u.Password == "" {
		return nil, ErrAccountMisconfigured
	}

	ok, err := CheckPassword(password, u.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVerification, err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issue(Claims{
		UserID:  u.ID,
		Email:   u.Email,
		Role:    string(u.Role),
		StaffID: deref(u.StaffID),
	})
	if err != nil {
		return nil, err
	}
	return &Result{Token: token, User: summarize(u)}, nil
}

// Register creates a teacher account and issues a session token. The role is
// always teacher: registration cannot self-elevate to admin.
func (s *Service) Register(ctx context.Context, staffID *string, name, email, password string) (*Result, error) {
	if name == "" || email == "" || password == "" {
		return nil, ErrInvalidInput
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateAccount
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hashed, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		StaffID:  staffID,
		Name:     name,
		Email:    email,
		Password: hashed,
		Role:     model.RoleTeacher,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			// Lost the race with a concurrent registration.
			return nil, ErrDuplicateAccount
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	// The register-path token carries fewer claims than login; verify
	// echoes whatever the token holds.
	token, err := s.issue(Claims{UserID: u.ID, Role: string(u.Role)})
	if err != nil {
		return nil, err
	}
	return &Result{Token: token, User: summarize(u)}, nil
}

// VerifyToken validates a presented token. Missing, malformed, forged and
// expired tokens all collapse into (nil, false); the distinction is
// deliberately not surfaced. On success the decoded claims are returned
// verbatim — they reflect the account at issuance time, not a fresh lookup.
func (s *Service) VerifyToken(token string) (*Claims, bool) {
	if token == "" || s.secret == "" {
		return nil, false
	}
	claims, err := Parse(token, s.secret)
	if err != nil {
		return nil, false
	}
	return &claims, true
}

func (s *Service) issue(claims Claims) (string, error) {
	if s.secret == "" {
		return "", ErrServerMisconfigured
	}
	token, err := Issue(claims, s.secret, s.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

func summarize(u *model.User) Summary {
	return Summary{
		ID:      u.ID,
		StaffID: u.StaffID,
		Name:    u.Name,
		Email:   u.Email,
		Role:    string(u.Role),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
