package auth

import (
	"time"

	"identity/config"
	domainerrors "identity/internal/domain/errors"
	"identity/internal/domain/service"
	"identity/internal/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// tokenClaims is the JWT payload: the registered claims plus a type discriminator.
type tokenClaims struct {
	Type service.TokenType `json:"type"`
	jwt.RegisteredClaims
}

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	secrets map[service.TokenType][]byte        // Signing secret per token type.
	ttls    map[service.TokenType]time.Duration // Validity window per token type.
	issuer  string
	now     func() time.Time
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" || cfg.SecretKey.Refresh == "" {
		return nil, errors.New("jwt secrets must be provided")
	}

	accessTTL, refreshTTL := 15*time.Minute, 7*24*time.Hour
	issuer := "identity"
	if cfg.Auth != nil {
		if cfg.Auth.AccessTokenTTL > 0 {
			accessTTL = cfg.Auth.AccessTokenTTL
		}
		if cfg.Auth.RefreshTokenTTL > 0 {
			refreshTTL = cfg.Auth.RefreshTokenTTL
		}
		if cfg.Auth.Issuer != "" {
			issuer = cfg.Auth.Issuer
		}
	}

	return &jwtService{
		secrets: map[service.TokenType][]byte{
			service.TokenTypeAccess:  []byte(cfg.SecretKey.Access),
			service.TokenTypeRefresh: []byte(cfg.SecretKey.Refresh),
		},
		ttls: map[service.TokenType]time.Duration{
			service.TokenTypeAccess:  accessTTL,
			service.TokenTypeRefresh: refreshTTL,
		},
		issuer: issuer,
		now:    time.Now,
	}, nil
}

// Issue creates a new access token and refresh token for a given account.
func (s *jwtService) Issue(accountID uuid.UUID) (*service.TokenPair, error) {
	access, err := s.sign(accountID, service.TokenTypeAccess)
	if err != nil {
		return nil, err
	}

	refresh, err := s.sign(accountID, service.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	return &service.TokenPair{Access: access, Refresh: refresh}, nil
}

// Verify parses tokenString, checks its signature, expiry and type, and returns the subject.
func (s *jwtService) Verify(tokenString string, expected service.TokenType) (uuid.UUID, error) {
	claims := &tokenClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, errors.Wrapf(domainerrors.ErrTokenExpired, "verify %s token", expected)
		}

		return uuid.Nil, errors.Wrapf(domainerrors.ErrTokenMalformed, "verify %s token: %v", expected, err)
	}

	if claims.Type != expected {
		return uuid.Nil, errors.Wrapf(domainerrors.ErrTokenWrongType, "expected %s token, got %s", expected, claims.Type)
	}

	accountID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, errors.Wrapf(domainerrors.ErrTokenMalformed, "invalid subject: %v", err)
	}

	return accountID, nil
}

// TTL returns the configured duration for the token type.
func (s *jwtService) TTL(tokenType service.TokenType) time.Duration {
	return s.ttls[tokenType]
}

// keyFunc picks the secret matching the type claim so that each token type
// is only ever verified with its own key.
func (s *jwtService) keyFunc(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, jwt.ErrSignatureInvalid
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok {
		return nil, errors.New("unexpected claims type")
	}

	secret, ok := s.secrets[claims.Type]
	if !ok {
		return nil, errors.Errorf("unknown token type %q", claims.Type)
	}

	return secret, nil
}

// sign is a private helper to create a JWT with specific claims.
func (s *jwtService) sign(accountID uuid.UUID, tokenType service.TokenType) (string, error) {
	now := s.now()
	claims := tokenClaims{
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttls[tokenType])),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secrets[tokenType])
	if err != nil {
		return "", errors.Wrapf(err, "failed to sign %s token", tokenType)
	}

	return signed, nil
}
