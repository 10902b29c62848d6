// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"
)

// TokenCodec issues and verifies self-contained bearer tokens.
type TokenCodec interface {
	// Issue signs the profile into an opaque token string.
	Issue(profile PublicProfile) (string, error)

	// Verify checks the token's integrity and expiry and returns its claims.
	// Failures wrap ErrInvalidToken.
	Verify(token string) (PublicProfile, error)
}

// TokenConfig configures a JWTCodec.
type TokenConfig struct {
	// Secret is the HMAC key. It must not be empty.
	Secret []byte
	// TTL bounds token lifetime. Zero issues tokens without expiry.
	TTL time.Duration
	// Issuer is written to and required in the iss claim when not empty.
	Issuer string
}

// tokenClaims is the JWT payload.
type tokenClaims struct {
	Login string `json:"login"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
	jwt.RegisteredClaims
}

// JWTCodec implements TokenCodec with HS256-signed JWTs.
type JWTCodec struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewJWTCodec creates a JWTCodec. The secret is copied and never changes afterwards.
func NewJWTCodec(cfg TokenConfig) (*JWTCodec, error) {
	if len(cfg.Secret) == 0 {
		return nil, oops.Code("AUTH_TOKEN_CONFIG_INVALID").Errorf("token secret is required")
	}
	if cfg.TTL < 0 {
		return nil, oops.Code("AUTH_TOKEN_CONFIG_INVALID").
			With("ttl", cfg.TTL.String()).
			Errorf("token ttl must not be negative")
	}

	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)

	return &JWTCodec{
		secret: secret,
		ttl:    cfg.TTL,
		issuer: cfg.Issuer,
		now:    time.Now,
	}, nil
}

// Issue signs the profile.
func (c *JWTCodec) Issue(profile PublicProfile) (string, error) {
	issuedAt := c.now().UTC()

	claims := tokenClaims{
		Login: profile.Login,
		Name:  profile.Name,
		Role:  profile.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   c.issuer,
			IssuedAt: jwt.NewNumericDate(issuedAt),
		},
	}
	if c.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(issuedAt.Add(c.ttl))
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", oops.Code(string(KindServerError)).
			With("operation", "sign token").
			Wrapf(ErrServerError, "sign token: %v", err)
	}
	return token, nil
}

// Verify validates the token and returns the profile it was issued for.
func (c *JWTCodec) Verify(token string) (PublicProfile, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(c.now),
	}
	if c.ttl > 0 {
		opts = append(opts, jwt.WithExpirationRequired())
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}

	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	}, opts...)
	if err != nil {
		return PublicProfile{}, oops.Code(string(KindInvalidToken)).
			With("expired", errors.Is(err, jwt.ErrTokenExpired)).
			Wrapf(ErrInvalidToken, "%v", err)
	}
	if !parsed.Valid {
		return PublicProfile{}, invalidToken("token is not valid")
	}

	if claims.Login == "" || claims.Name == "" {
		return PublicProfile{}, invalidToken("token is missing identity claims")
	}
	if !claims.Role.Valid() {
		return PublicProfile{}, invalidToken("token carries unknown role %q", claims.Role)
	}

	return PublicProfile{
		Login: claims.Login,
		Name:  claims.Name,
		Role:  claims.Role,
	}, nil
}

func invalidToken(format string, args ...any) error {
	return oops.Code(string(KindInvalidToken)).Wrapf(ErrInvalidToken, format, args...)
}

// Compile-time interface check.
var _ TokenCodec = (*JWTCodec)(nil)
