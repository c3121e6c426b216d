package internal

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/checkout/internal/config"
	"github.com/Alturino/checkout/internal/errors"
)

var authConfig = config.Auth{
	SecretKey: "secret",
	Issuer:    "user-service",
	Audience:  "audience-user",
}

func sign(t *testing.T, claims jwt.RegisteredClaims, key string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return token
}

func validClaims(subject string) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Issuer:    authConfig.Issuer,
		Subject:   subject,
		Audience:  jwt.ClaimStrings{authConfig.Audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}
}

func TestVerifyToken(t *testing.T) {
	c := context.Background()

	expired := validClaims("1")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	wrongIssuer := validClaims("1")
	wrongIssuer.Issuer = "someone-else"

	wrongAudience := validClaims("1")
	wrongAudience.Audience = jwt.ClaimStrings{"other"}

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{name: "valid token", token: sign(t, validClaims("1"), authConfig.SecretKey)},
		{name: "wrong key", token: sign(t, validClaims("1"), "other"), wantErr: true},
		{name: "expired", token: sign(t, expired, authConfig.SecretKey), wantErr: true},
		{name: "wrong issuer", token: sign(t, wrongIssuer, authConfig.SecretKey), wantErr: true},
		{name: "wrong audience", token: sign(t, wrongAudience, authConfig.SecretKey), wantErr: true},
		{name: "garbage", token: "not-a-jwt", wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			token, err := VerifyToken(c, test.token, authConfig)
			if test.wantErr {
				assert.Error(t, err)
				assert.Nil(t, token)
				return
			}
			require.NoError(t, err)
			assert.True(t, token.Valid)
		})
	}
}

func TestUserIdFromJwtToken(t *testing.T) {
	c := context.Background()

	t.Run("numeric subject", func(t *testing.T) {
		token, err := VerifyToken(c, sign(t, validClaims("42"), authConfig.SecretKey), authConfig)
		require.NoError(t, err)

		userID, err := UserIdFromJwtToken(AttachJwtToken(c, token))
		require.NoError(t, err)
		assert.EqualValues(t, 42, userID)
	})

	t.Run("missing token", func(t *testing.T) {
		_, err := UserIdFromJwtToken(c)
		assert.ErrorIs(t, err, errors.ErrEmptyAuth)
	})

	t.Run("empty subject", func(t *testing.T) {
		token, err := VerifyToken(c, sign(t, validClaims(""), authConfig.SecretKey), authConfig)
		require.NoError(t, err)

		_, err = UserIdFromJwtToken(AttachJwtToken(c, token))
		assert.ErrorIs(t, err, errors.ErrEmptySubject)
	})

	t.Run("non numeric subject", func(t *testing.T) {
		token, err := VerifyToken(c, sign(t, validClaims("abc"), authConfig.SecretKey), authConfig)
		require.NoError(t, err)

		_, err = UserIdFromJwtToken(AttachJwtToken(c, token))
		assert.Error(t, err)
	})
}
