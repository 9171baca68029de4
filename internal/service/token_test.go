package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func tokenSvc(t *testing.T) *Service {
	t.Helper()
	return New(nil, testCfg())
}

func TestSignParse_Roundtrip(t *testing.T) {
	t.Parallel()

	svc := tokenSvc(t)
	uid := uuid.New()

	token, err := svc.signToken(context.Background(), uid, "alice", time.Now().UTC(), time.Minute, svc.cfg.AccessSecret)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	gotUID, gotUsername, err := svc.parseToken(token, svc.cfg.AccessSecret)
	require.NoError(t, err)
	require.Equal(t, uid, gotUID)
	require.Equal(t, "alice", gotUsername)
}

func TestParseToken_CrossSecretRejected(t *testing.T) {
	t.Parallel()

	svc := tokenSvc(t)
	uid := uuid.New()
	now := time.Now().UTC()

	access, err := svc.generateAccessToken(context.Background(), uid, "alice", now)
	require.NoError(t, err)
	refresh, err := svc.generateRefreshToken(context.Background(), uid, "alice", now)
	require.NoError(t, err)

	// Классы токенов разделены секретами подписи в обе стороны.
	_, _, err = svc.validateRefreshToken(access)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, _, err = svc.validateAccessToken(refresh)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	svc := tokenSvc(t)

	// TTL заведомо больше leeway по модулю.
	token, err := svc.signToken(context.Background(), uuid.New(), "alice", time.Now().UTC(), -time.Minute, svc.cfg.AccessSecret)
	require.NoError(t, err)

	_, _, err = svc.parseToken(token, svc.cfg.AccessSecret)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseToken_WrongIssuerOrAudience(t *testing.T) {
	t.Parallel()

	svc := tokenSvc(t)

	badIssuer := testCfg()
	badIssuer.Issuer = "someone-else"
	foreignSvc := New(nil, badIssuer)

	token, err := foreignSvc.signToken(context.Background(), uuid.New(), "alice", time.Now().UTC(), time.Minute, svc.cfg.AccessSecret)
	require.NoError(t, err)

	_, _, err = svc.parseToken(token, svc.cfg.AccessSecret)
	require.ErrorIs(t, err, ErrInvalidToken)

	badAud := testCfg()
	badAud.Audience = []string{"other-gateway"}
	foreignAud := New(nil, badAud)

	token, err = foreignAud.signToken(context.Background(), uuid.New(), "alice", time.Now().UTC(), time.Minute, svc.cfg.AccessSecret)
	require.NoError(t, err)

	_, _, err = svc.parseToken(token, svc.cfg.AccessSecret)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_Garbage(t *testing.T) {
	t.Parallel()

	svc := tokenSvc(t)

	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		_, _, err := svc.parseToken(tok, svc.cfg.AccessSecret)
		require.ErrorIs(t, err, ErrInvalidToken, "token %q", tok)
	}
}

func TestSignToken_UniquePerIssue(t *testing.T) {
	t.Parallel()

	svc := tokenSvc(t)
	uid := uuid.New()
	now := time.Now().UTC().Truncate(time.Second)

	// Одинаковый момент выпуска, но jti делает токены различными.
	t1, err := svc.generateRefreshToken(context.Background(), uid, "alice", now)
	require.NoError(t, err)
	t2, err := svc.generateRefreshToken(context.Background(), uid, "alice", now)
	require.NoError(t, err)
	require.NotEqual(t, t1, t2)
}

func TestSignToken_CarriesRegisteredClaims(t *testing.T) {
	t.Parallel()

	svc := tokenSvc(t)
	uid := uuid.New()
	now := time.Now().UTC().Truncate(time.Second)

	token, err := svc.signToken(context.Background(), uid, "alice", now, time.Minute, svc.cfg.AccessSecret)
	require.NoError(t, err)

	claims := &authClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(svc.cfg.AccessSecret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	require.Equal(t, uid.String(), claims.Subject)
	require.Equal(t, svc.cfg.Issuer, claims.Issuer)
	require.Equal(t, jwt.ClaimStrings(svc.cfg.Audience), claims.Audience)
	require.NotEmpty(t, claims.ID)
	require.Equal(t, now.Unix(), claims.IssuedAt.Unix())
	require.Equal(t, now.Add(time.Minute).Unix(), claims.ExpiresAt.Unix())
}

func TestSessionKey_DeterministicAndOpaque(t *testing.T) {
	t.Parallel()

	k1 := sessionKey("some-refresh-token")
	k2 := sessionKey("some-refresh-token")
	k3 := sessionKey("another-token")

	require.Equal(t, k1, k2)
	require.NotEqual(t, k1, k3)
	// Ключ не содержит исходный токен.
	require.NotContains(t, k1, "some-refresh-token")
	require.Len(t, k1, 43) // base64url(sha256) без паддинга.
}
