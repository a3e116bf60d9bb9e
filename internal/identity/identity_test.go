package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer(t *testing.T, secret string) *Issuer {
	t.Helper()
	key, err := DeriveKey(secret)
	require.NoError(t, err)
	return NewIssuer(Config{Key: key, TTL: time.Hour})
}

func TestDeriveKey(t *testing.T) {
	a, err := DeriveKey("s3cret")
	require.NoError(t, err)
	b, err := DeriveKey("s3cret")
	require.NoError(t, err)
	c, err := DeriveKey("other")
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	r1, err := DeriveKey("")
	require.NoError(t, err)
	r2, err := DeriveKey("")
	require.NoError(t, err)
	assert.NotEqual(t, r1, r2)
}

func TestIssueParse(t *testing.T) {
	iss := newTestIssuer(t, "s3cret")
	tok, exp, err := iss.Issue("player-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	id, err := iss.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "player-1", id)
}

func TestParseRejects(t *testing.T) {
	iss := newTestIssuer(t, "s3cret")
	other := newTestIssuer(t, "different")

	forged, _, err := other.Issue("player-1")
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "player-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	empty, _, err := iss.Issue("")
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"garbage":       "not-a-token",
		"wrong key":     forged,
		"none alg":      none,
		"empty subject": empty,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := iss.Parse(tok)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestParseExpired(t *testing.T) {
	iss := newTestIssuer(t, "s3cret")
	past := time.Now().Add(-2 * time.Hour)
	iss.now = func() time.Time { return past }
	tok, _, err := iss.Issue("player-1")
	require.NoError(t, err)

	iss.now = time.Now
	_, err = iss.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCookieRoundTrip(t *testing.T) {
	iss := newTestIssuer(t, "s3cret")
	rec := httptest.NewRecorder()
	require.NoError(t, iss.SetCookie(rec, "player-9"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "guess_player", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	id, err := iss.PlayerID(req)
	require.NoError(t, err)
	assert.Equal(t, "player-9", id)

	_, err = iss.PlayerID(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, ErrInvalidToken)
}
