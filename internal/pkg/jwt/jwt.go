package jwt

import (
	"errors"
	"time"

	"court-booking/internal/domain/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Claims mirrors what the identity provider puts in its access tokens.
// The subject carries the user id.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type Service struct {
	secretKey []byte
	issuer    string
}

func NewService(secretKey, issuer string) *Service {
	return &Service{
		secretKey: []byte(secretKey),
		issuer:    issuer,
	}
}

// GenerateToken is used by tests and local tooling; production tokens come from the identity provider.
func (s *Service) GenerateToken(identity user.Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: identity.Email,
		Role:  identity.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(_ *jwt.Token) (any, error) {
		return s.secretKey, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Verify resolves a bearer token into the caller identity.
func (s *Service) Verify(tokenString string) (user.Identity, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return user.Identity{}, err
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return user.Identity{}, ErrInvalidToken
	}

	identity, err := user.NewIdentity(id, claims.Email, claims.Role)
	if err != nil {
		return user.Identity{}, errors.Join(ErrInvalidToken, err)
	}
	return identity, nil
}
