package util

import (
	"testing"
	"time"

	"score_predictor_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	user := &model.User{Username: "teacher01"}
	user.ID = "8c4f3a4e-1f0b-4e0c-9a55-6a1b8d2f0e11"

	token, err := GenerateJWT(user, "test-secret", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "teacher01", claims.Username)
}

func TestParseJWTWrongSecret(t *testing.T) {
	user := &model.User{Username: "teacher01"}
	user.ID = "8c4f3a4e-1f0b-4e0c-9a55-6a1b8d2f0e11"

	token, err := GenerateJWT(user, "secret-1", time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT(token, "secret-2")
	assert.Error(t, err)
}

func TestParseJWTExpired(t *testing.T) {
	user := &model.User{Username: "teacher01"}
	user.ID = "8c4f3a4e-1f0b-4e0c-9a55-6a1b8d2f0e11"

	token, err := GenerateJWT(user, "test-secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(token, "test-secret")
	assert.Error(t, err)
}

func TestParseJWTGarbage(t *testing.T) {
	_, err := ParseJWT("invalid.token.string", "test-secret")
	assert.Error(t, err)
}
