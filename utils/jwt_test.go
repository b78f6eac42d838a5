package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planhub/config"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	config.InitConfig()

	token, err := GenerateJWT(7, "dana@planhub.local", "manager", time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.EqualValues(t, 7, claims.UserID)
	assert.Equal(t, "dana@planhub.local", claims.Email)
	assert.Equal(t, "manager", claims.Role)
}

func TestValidateJWTRejectsExpiredToken(t *testing.T) {
	config.InitConfig()

	token, err := GenerateJWT(7, "dana@planhub.local", "manager", time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	config.InitConfig()

	_, err := ValidateJWT("not.a.token")
	assert.Error(t, err)
}
