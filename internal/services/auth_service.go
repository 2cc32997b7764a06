package services

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// TokenSigner issues a signed admin token with the given lifetime.
type TokenSigner func(ttl time.Duration) (string, error)

// AdminAuth validates the single shared admin password and issues session
// tokens. The configured secret may be a plain password or a bcrypt hash
// (prefix "$2"); a plain value is hashed once at construction so comparison
// always goes through bcrypt.
type AdminAuth struct {
	hash      []byte
	signToken TokenSigner
	tokenTTL  time.Duration
}

func NewAdminAuth(secret string, signer TokenSigner) (*AdminAuth, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, NewInvalidError("admin password not configured")
	}
	var hash []byte
	if strings.HasPrefix(secret, "$2") {
		hash = []byte(secret)
	} else {
		h, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hash = h
	}
	return &AdminAuth{hash: hash, signToken: signer, tokenTTL: 24 * time.Hour}, nil
}

func (a *AdminAuth) Login(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", NewUnauthorizedError("mot de passe incorrect")
	}
	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(password)); err != nil {
		return "", NewUnauthorizedError("mot de passe incorrect")
	}
	if a.signToken == nil {
		return "", NewInvalidError("token signer not configured")
	}
	return a.signToken(a.tokenTTL)
}

func (a *AdminAuth) TokenTTL() time.Duration { return a.tokenTTL }
