package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/stu-kho/kho-console/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// tokenFields are the places the backend puts the bearer token.
type tokenFields struct {
	Token       string `json:"token"`
	AccessToken string `json:"accessToken"`
}

// Authenticate forwards creds to the backend and splits its answer into the
// user payload and the token.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (Login, error) {
	creds.Username = strings.TrimSpace(creds.Username)
	raw, err := s.repo.Login(ctx, creds)
	if err != nil {
		return Login{}, err
	}
	var fields tokenFields
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Login{}, fmt.Errorf("auth: decode login response: %w", err)
	}
	token := fields.Token
	if token == "" {
		token = fields.AccessToken
	}
	if token == "" {
		return Login{}, fmt.Errorf("%w: %w", shared.ErrInvalidCredentials, ErrTokenMissing)
	}
	if err := s.CheckToken(token); err != nil {
		return Login{}, err
	}
	return Login{UserInfo: raw, Token: token}, nil
}

// CheckToken rejects an empty token and a JWT whose exp has passed. The
// signature belongs to the backend and is not verified here; tokens that are
// not JWTs carry no expiry and are accepted.
func (s *Service) CheckToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrTokenMissing
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	if !s.now().Before(exp.Time) {
		return fmt.Errorf("%w at %s", ErrTokenExpired, exp.Time.Format(time.RFC3339))
	}
	return nil
}

// IsCredentialError reports whether err is a refused login.
func IsCredentialError(err error) bool {
	return errors.Is(err, shared.ErrInvalidCredentials)
}
