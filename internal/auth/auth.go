package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"propapi/internal/model"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrSecretEmpty  = errors.New("jwt secret is empty")
)

// Claims are the JWT claims carried by portal bearer tokens. Subject is the user id.
type Claims struct {
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID string
	Role   model.Role
}

func (p Principal) IsLandlord() bool { return p.Role == model.RoleLandlord }
func (p Principal) IsTenant() bool   { return p.Role == model.RoleTenant }

// Issuer signs and verifies HS256 tokens.
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer returns an Issuer for the given shared secret.
func NewIssuer(secret, issuer string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, ErrSecretEmpty
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Issuer{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for userID with role, valid for the issuer's TTL.
func (i *Issuer) Issue(userID string, role model.Role) (string, error) {
	return i.IssueWithTTL(userID, role, i.ttl)
}

// IssueWithTTL signs a token with an explicit lifetime.
func (i *Issuer) IssueWithTTL(userID string, role model.Role, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("%w: subject required", ErrInvalidToken)
	}
	if role != model.RoleLandlord && role != model.RoleTenant {
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidToken, role)
	}
	now := i.now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token and returns the principal it names.
func (i *Issuer) Parse(tokenString string) (Principal, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	}
	if i.issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, opts...)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return Principal{}, ErrInvalidToken
	}
	if claims.Role != model.RoleLandlord && claims.Role != model.RoleTenant {
		return Principal{}, fmt.Errorf("%w: unknown role", ErrInvalidToken)
	}
	return Principal{UserID: claims.Subject, Role: claims.Role}, nil
}

type principalKey struct{}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal stored by WithPrincipal.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
