package utils

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")
)

// JWTClaim represents JWT claims
type JWTClaim struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.StandardClaims
}

// JWTManager issues and validates access tokens and remembers signed-out
// tokens until they would have expired anyway.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	revoked map[string]int64
}

// NewJWTManager creates a manager signing with secret; tokens live for ttl
func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{
		secret:  []byte(secret),
		ttl:     ttl,
		now:     time.Now,
		revoked: make(map[string]int64),
	}
}

// GenerateJWT generates a JWT token
func (m *JWTManager) GenerateJWT(userID, email string) (string, error) {
	now := m.now()
	claims := &JWTClaim{
		UserID: userID,
		Email:  email,
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(m.ttl).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken validates JWT token and returns claims
func (m *JWTManager) ValidateToken(signedToken string) (*JWTClaim, error) {
	token, err := jwt.ParseWithClaims(
		signedToken,
		&JWTClaim{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secret, nil
		},
	)
	if err != nil {
		var verr *jwt.ValidationError
		if errors.As(err, &verr) && verr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*JWTClaim)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	// Verify expiration against our clock as well
	if claims.ExpiresAt < m.now().Unix() {
		return nil, ErrTokenExpired
	}

	if m.isRevoked(claims.Id) {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// Revoke rejects the token with these claims from now on
func (m *JWTManager) Revoke(claims *JWTClaim) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().Unix()
	for id, exp := range m.revoked {
		if exp < now {
			delete(m.revoked, id)
		}
	}
	m.revoked[claims.Id] = claims.ExpiresAt
}

func (m *JWTManager) isRevoked(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[id]
	return ok
}
