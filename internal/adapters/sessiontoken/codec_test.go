package sessiontoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/zonewatch/zonewatch-api/internal/domain/auth"
	"github.com/zonewatch/zonewatch-api/internal/domain/model"
)

func testUser() *model.User {
	roleIDs := "100,200"
	return &model.User{
		ID:             "user-1",
		DiscordID:      "111222333",
		Username:       "tester",
		Role:           domainauth.RoleOfficer,
		DiscordRoleIDs: &roleIDs,
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNewCodec_RequiresSecret(t *testing.T) {
	_, err := NewCodec(CodecOptions{})
	require.Error(t, err)
}

func TestCodec_RoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	codec, err := NewCodec(CodecOptions{Secret: "test-secret", Now: fixedClock(now)})
	require.NoError(t, err)

	token, err := codec.Issue(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "111222333", claims.DiscordID)
	assert.Equal(t, []string{"100", "200"}, claims.DiscordRoleIDs)
}

func TestCodec_Issue_NilUser(t *testing.T) {
	codec, err := NewCodec(CodecOptions{Secret: "test-secret"})
	require.NoError(t, err)

	_, err = codec.Issue(nil)
	require.Error(t, err)
}

func TestCodec_Verify_WrongSecret(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer, err := NewCodec(CodecOptions{Secret: "secret-a", Now: fixedClock(now)})
	require.NoError(t, err)
	verifier, err := NewCodec(CodecOptions{Secret: "secret-b", Now: fixedClock(now)})
	require.NoError(t, err)

	token, err := issuer.Issue(testUser())
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestCodec_Verify_Expired(t *testing.T) {
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer, err := NewCodec(CodecOptions{Secret: "test-secret", Now: fixedClock(issued)})
	require.NoError(t, err)

	token, err := issuer.Issue(testUser())
	require.NoError(t, err)

	// Eight days later the seven-day credential must be rejected.
	later := issued.Add(8 * 24 * time.Hour)
	verifier, err := NewCodec(CodecOptions{Secret: "test-secret", Now: fixedClock(later)})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestCodec_Verify_StillValidBeforeExpiry(t *testing.T) {
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer, err := NewCodec(CodecOptions{Secret: "test-secret", Now: fixedClock(issued)})
	require.NoError(t, err)

	token, err := issuer.Issue(testUser())
	require.NoError(t, err)

	later := issued.Add(6 * 24 * time.Hour)
	verifier, err := NewCodec(CodecOptions{Secret: "test-secret", Now: fixedClock(later)})
	require.NoError(t, err)

	claims, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "111222333", claims.DiscordID)
}

func TestCodec_Verify_Malformed(t *testing.T) {
	codec, err := NewCodec(CodecOptions{Secret: "test-secret"})
	require.NoError(t, err)

	for _, token := range []string{"", "garbage", "a.b", "a.b.c"} {
		_, verr := codec.Verify(token)
		assert.ErrorIs(t, verr, ErrMalformed, "token %q", token)
	}
}

func TestCodec_Verify_RejectsUnsignedAlg(t *testing.T) {
	codec, err := NewCodec(CodecOptions{Secret: "test-secret"})
	require.NoError(t, err)

	// alg "none" token: header {"alg":"none","typ":"JWT"}, payload {"sub":"x"}.
	unsigned := "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0.eyJzdWIiOiJ4In0."
	_, err = codec.Verify(unsigned)
	require.Error(t, err)
}

func TestCodec_CustomLifetime(t *testing.T) {
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer, err := NewCodec(CodecOptions{
		Secret:   "test-secret",
		Lifetime: time.Hour,
		Now:      fixedClock(issued),
	})
	require.NoError(t, err)

	token, err := issuer.Issue(testUser())
	require.NoError(t, err)

	verifier, err := NewCodec(CodecOptions{
		Secret: "test-secret",
		Now:    fixedClock(issued.Add(2 * time.Hour)),
	})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrExpired)
}
