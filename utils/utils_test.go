package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"insightboard/api/models"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	user := &models.User{ID: 7, Email: "owner@example.com"}

	token, err := GenerateJWT(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "owner@example.com", claims.Email)
	assert.Equal(t, "insightboard-api", claims.Issuer)
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	_, err := ValidateJWT("not.a.token")
	assert.Error(t, err)

	_, err = ValidateJWT("")
	assert.Error(t, err)
}

func TestOAuthStateSingleUse(t *testing.T) {
	state := NewOAuthState(42)
	require.NotEmpty(t, state)

	userID, ok := ConsumeOAuthState(state)
	require.True(t, ok)
	assert.Equal(t, 42, userID)

	// Second consume fails: the nonce is single-use.
	_, ok = ConsumeOAuthState(state)
	assert.False(t, ok)
}

func TestConsumeOAuthStateUnknown(t *testing.T) {
	_, ok := ConsumeOAuthState("never-issued")
	assert.False(t, ok)
}

func TestNewOAuthStateSweepsExpired(t *testing.T) {
	statesMu.Lock()
	states["stale-nonce"] = stateEntry{userID: 7, expiresAt: time.Now().Add(-time.Minute)}
	statesMu.Unlock()

	state := NewOAuthState(8)
	require.NotEmpty(t, state)

	statesMu.Lock()
	_, staleKept := states["stale-nonce"]
	statesMu.Unlock()
	assert.False(t, staleKept, "abandoned nonces must not pile up")

	// The fresh nonce survived the sweep.
	userID, ok := ConsumeOAuthState(state)
	require.True(t, ok)
	assert.Equal(t, 8, userID)
}

func TestTokenRoundTrip(t *testing.T) {
	tok := &oauth2.Token{
		AccessToken:  "ya29.access",
		RefreshToken: "1//refresh",
		TokenType:    "Bearer",
	}

	data, err := MarshalToken(tok)
	require.NoError(t, err)

	got, err := UnmarshalToken(data)
	require.NoError(t, err)
	assert.Equal(t, tok.AccessToken, got.AccessToken)
	assert.Equal(t, tok.RefreshToken, got.RefreshToken)
}

func TestUnmarshalTokenRejectsEmpty(t *testing.T) {
	_, err := UnmarshalToken(nil)
	assert.Error(t, err)

	_, err = UnmarshalToken([]byte(`{}`))
	assert.Error(t, err, "a token with neither access nor refresh token is useless")

	_, err = UnmarshalToken([]byte(`{broken`))
	assert.Error(t, err)
}

func TestClampHistoryDays(t *testing.T) {
	assert.Equal(t, 28, ClampHistoryDays(0))
	assert.Equal(t, 28, ClampHistoryDays(-5))
	assert.Equal(t, 90, ClampHistoryDays(90))
	assert.Equal(t, 365, ClampHistoryDays(10000))
}
