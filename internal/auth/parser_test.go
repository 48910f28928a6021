package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims *Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestParserRoundTrip(t *testing.T) {
	tenantID := uuid.New()
	patientID := uuid.New()
	claims := &Claims{
		UserID:    uuid.New(),
		TenantID:  &tenantID,
		PatientID: &patientID,
		Role:      "patient",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	parser := NewParser("test-secret")
	parsed, err := parser.Parse(signToken(t, "test-secret", claims))
	require.NoError(t, err)

	assert.Equal(t, claims.UserID, parsed.UserID)
	require.NotNil(t, parsed.TenantID)
	assert.Equal(t, tenantID, *parsed.TenantID)
	require.NotNil(t, parsed.PatientID)
	assert.Equal(t, patientID, *parsed.PatientID)
	assert.Equal(t, "patient", parsed.Role)
}

func TestParserPlatformAdminHasNoTenant(t *testing.T) {
	claims := &Claims{
		UserID: uuid.New(),
		Role:   "platform_admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	parser := NewParser("test-secret")
	parsed, err := parser.Parse(signToken(t, "test-secret", claims))
	require.NoError(t, err)
	assert.Nil(t, parsed.TenantID)
	assert.Nil(t, parsed.PatientID)
}

func TestParserRejectsWrongSecret(t *testing.T) {
	claims := &Claims{UserID: uuid.New(), Role: "admin"}
	parser := NewParser("right-secret")

	_, err := parser.Parse(signToken(t, "wrong-secret", claims))
	assert.Error(t, err)
}

func TestParserRejectsExpiredToken(t *testing.T) {
	claims := &Claims{
		UserID: uuid.New(),
		Role:   "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}

	parser := NewParser("test-secret")
	_, err := parser.Parse(signToken(t, "test-secret", claims))
	assert.Error(t, err)
}

func TestParserRejectsGarbage(t *testing.T) {
	parser := NewParser("test-secret")
	_, err := parser.Parse("not-a-token")
	assert.Error(t, err)
}
