package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "wellbuddie/pkg/domain"
	dErrors "wellbuddie/pkg/domain-errors"
)

func TestTokenService_IssueAndValidate(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := NewTokenService("secret", time.Hour, WithClock(func() time.Time { return now }))

	tok, err := svc.Issue()
	require.NoError(t, err)
	assert.Equal(t, "Bearer", tok.TokenType)
	assert.Equal(t, now.Add(time.Hour), tok.ExpiresAt)
	assert.False(t, tok.SubjectID.IsNil())

	claims, err := svc.ValidateToken(tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, tok.SubjectID.String(), claims.SubjectID)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenService_IssuesDistinctSubjects(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	a, err := svc.Issue()
	require.NoError(t, err)
	b, err := svc.Issue()
	require.NoError(t, err)
	assert.NotEqual(t, a.SubjectID, b.SubjectID)
}

func TestTokenService_RejectsExpired(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := NewTokenService("secret", time.Minute, WithClock(func() time.Time { return now }))
	tok, err := svc.IssueFor(id.NewSubjectID())
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = svc.ValidateToken(tok.AccessToken)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	assert.Contains(t, err.Error(), "expired")
}

func TestTokenService_RejectsForeignKey(t *testing.T) {
	tok, err := NewTokenService("one", time.Hour).Issue()
	require.NoError(t, err)

	_, err = NewTokenService("two", time.Hour).ValidateToken(tok.AccessToken)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestMiddlewareValidator(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	tok, err := svc.Issue()
	require.NoError(t, err)

	claims, err := NewMiddlewareValidator(svc).ValidateToken(tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, tok.SubjectID.String(), claims.SubjectID)

	_, err = NewMiddlewareValidator(svc).ValidateToken("garbage")
	assert.Error(t, err)
}
