package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/yourname/symptomtracker/internal"
)

// LocalAuthProvider verifies HS256 tokens signed with the identity provider's
// JWT secret. DevToken, when set, is accepted as a fixed demo user.
type LocalAuthProvider struct {
	Secret   []byte
	DevToken string
	logger   internal.Logger
}

var DemoUser = internal.User{ID: "u1", Name: "Demo User"}

func (a *LocalAuthProvider) ValidateTokenLocal(token string) (*internal.User, error) {
	if a.DevToken != "" && token == a.DevToken {
		u := DemoUser
		return &u, nil
	}
	if len(a.Secret) == 0 {
		a.logger.Warnf("invalid token and no JWT secret configured")
		return nil, errors.New("invalid token")
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.Secret, nil
	})
	if err != nil || !parsed.Valid {
		a.logger.Warnf("invalid token: %v", err)
		return nil, errors.New("invalid token")
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, errors.New("token has no subject")
	}
	email, _ := claims["email"].(string)
	return &internal.User{ID: sub, Email: email}, nil
}

func (a *LocalAuthProvider) ValidateTokenRemote(ctx context.Context, token string) (*internal.User, error) {
	a.logger.Warnf("ValidateTokenRemote not implemented in LocalAuthProvider")
	return nil, errors.New("not implemented in LocalAuthProvider")
}

func NewLocalAuthProvider(secret, devToken string, logger internal.Logger) *LocalAuthProvider {
	return &LocalAuthProvider{Secret: []byte(secret), DevToken: devToken, logger: logger}
}
