package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"forum-reader/internal/domain/entity"
)

// Claims is the token payload. The subject is the numeric user ID.
type Claims struct {
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Caller converts verified claims into a caller identity.
func (c *Claims) Caller() (entity.Caller, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return entity.Anonymous, fmt.Errorf("invalid sub claim %q", c.Subject)
	}
	return entity.Caller{
		UserID:      id,
		Username:    c.Name,
		IsSuperuser: c.Role == RoleAdmin,
	}, nil
}

// IssueToken signs an HS256 token for caller that expires after ttl.
func IssueToken(secret []byte, caller entity.Caller, ttl time.Duration, now time.Time) (string, error) {
	if !caller.IsAuthenticated() {
		return "", errors.New("cannot issue a token for an anonymous caller")
	}
	role := RoleMember
	if caller.IsSuperuser {
		role = RoleAdmin
	}
	claims := Claims{
		Name: caller.Username,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(caller.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// parseToken verifies an HS256 token. Expiry is mandatory.
func parseToken(raw string, secret []byte, leeway time.Duration) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(leeway),
	)
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
