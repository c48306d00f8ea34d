package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz_backend/internal/model"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestJWT(t *testing.T) {
	user := &model.User{Username: "bernard"}
	user.ID = 42

	token, err := GenerateJWT(user, "sid-1", testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "bernard", claims.Username)
	assert.Equal(t, "sid-1", claims.SessionID())

	_, err = ParseJWT(token, "another-secret-another-secret-xx")
	assert.Error(t, err)

	expired, err := GenerateJWT(user, "sid-2", testSecret, -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(expired, testSecret)
	assert.Error(t, err)

	noSession, err := GenerateJWT(user, "", testSecret, time.Hour)
	require.NoError(t, err)
	_, err = ParseJWT(noSession, testSecret)
	assert.Error(t, err)
}

func TestParseID(t *testing.T) {
	id, ok := ParseID("12")
	assert.True(t, ok)
	assert.Equal(t, uint(12), id)

	id, ok = ParseID("12/")
	assert.True(t, ok)
	assert.Equal(t, uint(12), id)

	for _, s := range []string{"", "0", "-1", "abc", "1.5"} {
		_, ok := ParseID(s)
		assert.False(t, ok, s)
	}
}

func TestSafeNext(t *testing.T) {
	assert.Equal(t, "/history/", SafeNext("/history/", "/quiz/"))
	assert.Equal(t, "/quiz/", SafeNext("", "/quiz/"))
	assert.Equal(t, "/quiz/", SafeNext("https://evil.example", "/quiz/"))
	assert.Equal(t, "/quiz/", SafeNext("//evil.example", "/quiz/"))
	assert.Equal(t, "/quiz/", SafeNext(`/\evil.example`, "/quiz/"))
}
