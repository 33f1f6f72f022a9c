package identity

import (
	"errors"
	"log/slog"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lucasmnd/duodle/internal/model"
)

// Errors
var (
	ErrInvalidToken = errors.New("invalid identity token")
)

// Verifier resolves a transport-level credential into an Identity.
// Implementations stand in for the external auth collaborator; the core
// never issues tokens itself.
type Verifier interface {
	// Verify resolves a token into an identity. An empty token is a
	// legal anonymous connection and yields (nil, nil).
	Verify(token string) (*model.Identity, error)
}

// Config holds configuration for the JWT verifier
type Config struct {
	// Secret is the HMAC signing key shared with the auth service
	Secret []byte
}

// Service verifies HMAC-signed JWTs issued by the external auth service
type Service struct {
	secret []byte
	logger *slog.Logger
}

// New creates a new identity Service
func New(cfg Config, logger *slog.Logger) *Service {
	return &Service{
		secret: cfg.Secret,
		logger: logger,
	}
}

var _ Verifier = (*Service)(nil)

type tokenClaims struct {
	jwt.RegisteredClaims
	Username      string `json:"username"`
	EmailVerified bool   `json:"email_verified"`
}

// Verify resolves a bearer token into an Identity. The subject claim is
// the persistent account reference; email_verified carries the duo-play
// verification gate.
func (s *Service) Verify(token string) (*model.Identity, error) {
	if token == "" {
		return nil, nil
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))
	claims := &tokenClaims{}

	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		s.logger.Debug("identity token rejected", slog.Any("error", err))
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &model.Identity{
		ID:       model.IdentityID(claims.Subject),
		Username: claims.Username,
		Verified: claims.EmailVerified,
	}, nil
}

// RequireVerified gates duo play: the identity must be present and
// verified before a player may enter a queue or a private room.
func RequireVerified(id *model.Identity) error {
	if id == nil {
		return model.ErrIdentityRequired
	}
	if !id.Verified {
		return model.ErrIdentityUnverified
	}
	return nil
}
