package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propapi/internal/model"
)

func TestIssuer_RoundTrip(t *testing.T) {
	iss, err := NewIssuer("s3cret", "propapi", time.Hour)
	require.NoError(t, err)

	tok, err := iss.Issue("4f1c7a0e-7d2b-4a55-9a57-2a3c0f2f7b11", model.RoleLandlord)
	require.NoError(t, err)

	p, err := iss.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "4f1c7a0e-7d2b-4a55-9a57-2a3c0f2f7b11", p.UserID)
	assert.True(t, p.IsLandlord())
	assert.False(t, p.IsTenant())
}

func TestIssuer_Rejects(t *testing.T) {
	iss, err := NewIssuer("s3cret", "propapi", time.Hour)
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		tok, err := iss.IssueWithTTL("u1", model.RoleTenant, time.Minute)
		require.NoError(t, err)
		iss.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
		defer func() { iss.now = time.Now }()

		_, err = iss.Parse(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, _ := NewIssuer("different", "propapi", time.Hour)
		tok, err := other.Issue("u1", model.RoleTenant)
		require.NoError(t, err)

		_, err = iss.Parse(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other, _ := NewIssuer("s3cret", "someone-else", time.Hour)
		tok, _ := other.Issue("u1", model.RoleTenant)

		_, err := iss.Parse(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("alg none", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
			Role: model.RoleLandlord,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "u1",
				Issuer:    "propapi",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
		s, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = iss.Parse(s)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := iss.Parse("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestIssuer_IssueValidation(t *testing.T) {
	_, err := NewIssuer("", "propapi", time.Hour)
	assert.ErrorIs(t, err, ErrSecretEmpty)

	iss, _ := NewIssuer("s3cret", "", 0)
	_, err = iss.Issue("", model.RoleTenant)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = iss.Issue("u1", "admin")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPrincipalContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithPrincipal(context.Background(), Principal{UserID: "u1", Role: model.RoleTenant})
	p, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "u1", p.UserID)
	assert.True(t, p.IsTenant())
}
