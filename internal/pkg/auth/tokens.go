package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yigit/studentportal/internal/app/models"
	"github.com/yigit/studentportal/internal/pkg/apperrors"
)

// ErrInvalidFormat is returned when the Authorization header is missing or malformed
var ErrInvalidFormat = errors.New("invalid token format")

// TokenConfig defines token signing settings
type TokenConfig struct {
	SecretKey string
	TTL       time.Duration
	Issuer    string
}

// TokenService signs and validates session tokens. The token ID (jti) is the
// key of the server-side session record.
type TokenService struct {
	config TokenConfig
	now    func() time.Time
}

// NewTokenService creates a new token service
func NewTokenService(config TokenConfig) *TokenService {
	return &TokenService{
		config: config,
		now:    time.Now,
	}
}

// Claims defines token content
type Claims struct {
	StudentID int64  `json:"studentId"`
	Username  string `json:"username"`
	jwt.RegisteredClaims
}

// TTL returns the lifetime of issued tokens
func (s *TokenService) TTL() time.Duration {
	return s.config.TTL
}

// Issue creates a signed token and the session record it refers to
func (s *TokenService) Issue(student *models.Student) (string, Session, error) {
	issuedAt := s.now()
	session := Session{
		ID:        uuid.New().String(),
		StudentID: student.ID,
		Username:  student.Username,
		CreatedAt: issuedAt,
		ExpiresAt: issuedAt.Add(s.config.TTL),
	}

	claims := &Claims{
		StudentID: student.ID,
		Username:  student.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			Issuer:    s.config.Issuer,
			Subject:   strconv.FormatInt(student.ID, 10),
			ID:        session.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return "", Session{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, session, nil
}

// Validate parses a token and checks its signature, issuer and expiry
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.SecretKey), nil
	}, jwt.WithIssuer(s.config.Issuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.ID == "" || claims.StudentID <= 0 {
		return nil, apperrors.ErrTokenInvalid
	}
	return claims, nil
}

// ExtractBearerToken extracts the token from the Authorization header.
// A bare token without a scheme is accepted; any other scheme is rejected.
func ExtractBearerToken(authHeader string) (string, error) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", ErrInvalidFormat
	}

	scheme, rest, hasScheme := strings.Cut(authHeader, " ")
	if strings.EqualFold(scheme, "Bearer") {
		token := strings.TrimSpace(rest)
		if token == "" {
			return "", ErrInvalidFormat
		}
		return token, nil
	}
	if hasScheme {
		return "", ErrInvalidFormat
	}

	return authHeader, nil
}
