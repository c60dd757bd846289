package jwt

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess = "access"

	// DefaultAccessExpiration applies when no expiration is configured.
	DefaultAccessExpiration = 24 * time.Hour
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrTokenRevoked = errors.New("token has been revoked")
)

// Service issues and verifies the HS256 bearer tokens accepted by the API
// when auth is enabled.
type Service interface {
	GenerateAccessToken(subject string) (token string, expiresAt int64, err error)
	ValidateAccessToken(tokenString string) (subject string, err error)
	JWTAuth() *jwtauth.JWTAuth
	RevokeToken(token string)
	IsTokenRevoked(token string) bool
}

type JWTService struct {
	accessExpiration time.Duration
	tokenAuth        *jwtauth.JWTAuth
	revokedTokens    map[string]int64
	mu               sync.RWMutex
	now              func() time.Time
}

func NewJWTService(secretKey string, accessExpiration time.Duration) Service {
	if accessExpiration <= 0 {
		accessExpiration = DefaultAccessExpiration
	}
	return &JWTService{
		accessExpiration: accessExpiration,
		tokenAuth:        jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revokedTokens:    make(map[string]int64),
		now:              time.Now,
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(subject string) (token string, expiresAt int64, err error) {
	if subject == "" {
		return "", 0, fmt.Errorf("token subject is required")
	}
	issuedAt := j.now()
	expiresAt = issuedAt.Add(j.accessExpiration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"sub":  subject,
		"type": TokenTypeAccess,
		"iat":  issuedAt.Unix(),
		"exp":  expiresAt,
	})
	return tokenString, expiresAt, err
}

// ValidateAccessToken verifies signature, expiry and token type.
func (j *JWTService) ValidateAccessToken(tokenString string) (string, error) {
	if j.IsTokenRevoked(tokenString) {
		return "", ErrTokenRevoked
	}

	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != TokenTypeAccess {
		return "", ErrInvalidToken
	}
	return token.Subject(), nil
}

func (j *JWTService) RevokeToken(token string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.revokedTokens[token] = j.now().Unix()
}

func (j *JWTService) IsTokenRevoked(token string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedTokens[token]
	return revoked
}
