package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vqdung71104/student-management-sub001/internal/models"
)

func TestTokenServiceRoundTrip(t *testing.T) {
	svc := NewTokenService("secret")
	token, err := svc.IssueToken("sv-001", models.RoleStudent, time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "sv-001", claims.StudentID)
	assert.Equal(t, models.RoleStudent, claims.Role)
	assert.True(t, claims.CanActFor("sv-001"))
	assert.False(t, claims.CanActFor("sv-002"))
}

func TestTokenServiceRejectsExpiredAndForeignTokens(t *testing.T) {
	issuer := NewTokenService("secret")
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := issuer.IssueToken("sv-001", models.RoleStudent, time.Hour)
	require.NoError(t, err)
	_, err = NewTokenService("secret").ValidateToken(expired)
	assert.Error(t, err)

	foreign, err := NewTokenService("other").IssueToken("sv-001", models.RoleStudent, time.Hour)
	require.NoError(t, err)
	_, err = NewTokenService("secret").ValidateToken(foreign)
	assert.Error(t, err)
}

func TestTokenServiceAdvisorActsForAnyStudent(t *testing.T) {
	svc := NewTokenService("secret")
	token, err := svc.IssueToken("", models.RoleAdvisor, time.Hour)
	require.NoError(t, err)
	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.True(t, claims.CanActFor("sv-123"))
}
