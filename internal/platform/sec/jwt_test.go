// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidora/internal/platform/sec"
)

const issuer = "vidora.app"

func sign(t *testing.T, key *rsa.PrivateKey, claims sec.AuthClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func claimsFor(userID, tokenIssuer string, expiresIn time.Duration) sec.AuthClaims {
	return sec.AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
		UserID:   userID,
		Username: "alice",
	}
}

/*
TestTokenVerifier_VerifyToken accepts only unexpired RS256 tokens from the
configured issuer, signed by the matching key and naming a user.
*/
func TestTokenVerifier_VerifyToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	verifier := sec.NewTokenVerifierFromKey(&key.PublicKey, issuer)

	hmacToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claimsFor("u1", issuer, time.Hour)).SignedString([]byte("secret"))
	require.NoError(t, err)

	noExpiry := claimsFor("u1", issuer, time.Hour)
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{name: "valid", token: sign(t, key, claimsFor("u1", issuer, time.Hour))},
		{name: "uppercase user", token: sign(t, key, claimsFor("U1", issuer, time.Hour))},
		{name: "expired", token: sign(t, key, claimsFor("u1", issuer, -time.Minute)), wantErr: true},
		{name: "foreign issuer", token: sign(t, key, claimsFor("u1", "elsewhere", time.Hour)), wantErr: true},
		{name: "other key", token: sign(t, otherKey, claimsFor("u1", issuer, time.Hour)), wantErr: true},
		{name: "hmac algorithm", token: hmacToken, wantErr: true},
		{name: "missing expiry", token: sign(t, key, noExpiry), wantErr: true},
		{name: "missing user", token: sign(t, key, claimsFor("", issuer, time.Hour)), wantErr: true},
		{name: "garbage", token: "not.a.jwt", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := verifier.VerifyToken(tt.token)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "u1", claims.UserID)
			assert.Equal(t, "alice", claims.Username)
		})
	}
}

func TestNewTokenVerifier_MissingKey(t *testing.T) {
	_, err := sec.NewTokenVerifier(t.TempDir()+"/absent.pem", issuer)
	assert.Error(t, err)
}
