package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/xaslilac/bombas/internal/clock"
)

// Issuer signs and verifies session tokens. A token's subject is the
// session id it grants mutation rights to.
type Issuer struct {
	secret   []byte
	lifetime time.Duration
	clk      clock.Clock
}

func NewIssuer(secret []byte, lifetime time.Duration, clk clock.Clock) *Issuer {
	if clk == nil {
		clk = clock.New()
	}
	return &Issuer{secret: secret, lifetime: lifetime, clk: clk}
}

func (i *Issuer) Issue(sessionId string) (string, error) {
	now := i.clk.Now()
	claims := jwt.RegisteredClaims{
		Subject:   sessionId,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.lifetime)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

func (i *Issuer) Parse(raw string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.clk.Now))
	if err != nil {
		return nil, err
	}
	return claims, nil
}
