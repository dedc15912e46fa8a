package auth

import (
	"testing"
	"time"

	"github.com/BradenHooton/ideabox/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-32-characters-long!"

func testUser() *models.User {
	return &models.User{ID: 7, Username: "alice", Role: models.RoleUser, IsActive: true}
}

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	token, expiresAt, err := tm.GenerateAccessToken(testUser())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, models.RoleUser, claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenManager_UniqueJTI(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	a, _, err := tm.GenerateAccessToken(testUser())
	require.NoError(t, err)
	b, _, err := tm.GenerateAccessToken(testUser())
	require.NoError(t, err)

	ca, _ := tm.ValidateToken(a)
	cb, _ := tm.ValidateToken(b)
	assert.NotEqual(t, ca.ID, cb.ID)
}

func TestTokenManager_Expired(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Minute)
	tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := tm.GenerateAccessToken(testUser())
	require.NoError(t, err)

	tm.now = time.Now
	_, err = tm.ValidateToken(token)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	token, _, err := NewTokenManager(testSecret, time.Hour).GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = NewTokenManager("another-secret-32-characters-long", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestTokenManager_RejectsOtherTokenTypes(t *testing.T) {
	claims := &models.TokenClaims{
		Type:   "refresh",
		UserID: 7,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = NewTokenManager(testSecret, time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestTokenManager_RejectsNoneAlgorithm(t *testing.T) {
	claims := &models.TokenClaims{Type: TokenTypeAccess, UserID: 7}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenManager(testSecret, time.Hour).ValidateToken(token)
	assert.Error(t, err)
}
