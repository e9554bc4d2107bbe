package jwt

import (
	"context"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/groundops/ops-backend-go/internal/domain/auth"
	"github.com/groundops/ops-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", "1h")
	shift := "Night"
	employeeID := "emp-1"

	token, expiresAt, err := svc.GenerateAccessToken(user.Principal{
		UserID:     "user-1",
		EmployeeID: &employeeID,
		Role:       user.RoleCashier,
		Shift:      &shift,
	})
	require.NoError(t, err)
	assert.NotZero(t, expiresAt)

	decoded, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, TokenTypeAccess, claims["type"])

	p, err := PrincipalFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, "user-1", p.UserID)
	assert.Equal(t, user.RoleCashier, p.Role)
	require.NotNil(t, p.Shift)
	assert.Equal(t, "Night", *p.Shift)
	require.NotNil(t, p.EmployeeID)
	assert.Equal(t, "emp-1", *p.EmployeeID)
}

func TestGenerateAccessToken_BadExpiration(t *testing.T) {
	svc := NewJWTService("test-secret", "forever")
	_, _, err := svc.GenerateAccessToken(user.Principal{UserID: "u", Role: user.RoleAdmin})
	assert.Error(t, err)
}

func TestPrincipalFromClaims_Rejects(t *testing.T) {
	_, err := PrincipalFromClaims(map[string]interface{}{"role": "admin"})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = PrincipalFromClaims(map[string]interface{}{"user_id": "u", "role": "owner"})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	p, err := PrincipalFromClaims(map[string]interface{}{"user_id": "u", "role": "admin", "shift": nil})
	require.NoError(t, err)
	assert.Nil(t, p.Shift)
	assert.Nil(t, p.EmployeeID)
}
