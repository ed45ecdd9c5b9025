package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuthService() *AuthService {
	return &AuthService{
		username:  "supervisor",
		password:  "secret",
		jwtSecret: []byte("test-secret"),
		tokenTTL:  time.Hour,
	}
}

func TestAuthService_Login(t *testing.T) {
	svc := testAuthService()

	resp, err := svc.Login("supervisor", "secret")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Contains(t, resp.SupervisorID, "sup_")
}

func TestAuthService_LoginRejectsBadCredentials(t *testing.T) {
	svc := testAuthService()

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "supervisor", "nope"},
		{"wrong username", "admin", "secret"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(tt.username, tt.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestAuthService_ValidateToken(t *testing.T) {
	svc := testAuthService()

	resp, err := svc.Login("supervisor", "secret")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.SupervisorID, claims.SupervisorID)
	assert.Equal(t, "supervisor", claims.Name)
}

func TestAuthService_ValidateTokenRejectsGarbage(t *testing.T) {
	svc := testAuthService()

	_, err := svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_ValidateTokenRejectsWrongKey(t *testing.T) {
	svc := testAuthService()
	resp, err := svc.Login("supervisor", "secret")
	require.NoError(t, err)

	other := testAuthService()
	other.jwtSecret = []byte("different-secret")
	_, err = other.ValidateToken(resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
