package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/sessionkeeper/internal/model"
)

func TestJWT_Roundtrip(t *testing.T) {
	j := NewJWT("secret")
	payload := map[string]string{
		model.PayloadUserID:  uuid.NewString(),
		model.PayloadSession: "paired-session",
	}

	value, err := j.Encode(payload, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, value)

	got, err := j.Decode(value)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestJWT_Encode_DoesNotAliasPayload(t *testing.T) {
	j := NewJWT("secret")
	payload := map[string]string{model.PayloadUserID: "u"}

	value, err := j.Encode(payload, time.Hour)
	require.NoError(t, err)
	payload[model.PayloadUserID] = "changed"

	got, err := j.Decode(value)
	require.NoError(t, err)
	assert.Equal(t, "u", got[model.PayloadUserID])
}

func TestJWT_SamePayloadYieldsDistinctValues(t *testing.T) {
	j := NewJWT("secret")
	payload := map[string]string{model.PayloadUserID: "u"}

	first, err := j.Encode(payload, time.Hour)
	require.NoError(t, err)
	second, err := j.Encode(payload, time.Hour)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestJWT_Decode_Expired(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	j := NewJWT("secret", WithClock(clock))

	value, err := j.Encode(map[string]string{model.PayloadUserID: "u"}, time.Minute)
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)

	payload, err := j.Decode(value)
	require.ErrorIs(t, err, ErrExpired)
	assert.Equal(t, "u", payload[model.PayloadUserID])
}

func TestJWT_Decode_Failures(t *testing.T) {
	j := NewJWT("secret")
	other := NewJWT("other-secret")

	foreign, err := other.Encode(map[string]string{model.PayloadUserID: "u"}, time.Hour)
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		Data:             map[string]string{model.PayloadUserID: "u"},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Data: map[string]string{model.PayloadUserID: "u"},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		value   string
		wantErr error
	}{
		{name: "empty", value: "", wantErr: model.ErrTokenMissing},
		{name: "garbage", value: "not-a-token", wantErr: ErrInvalid},
		{name: "wrong key", value: foreign, wantErr: ErrInvalid},
		{name: "unsigned", value: noneToken, wantErr: ErrInvalid},
		{name: "no expiry", value: noExpiry, wantErr: ErrInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := j.Decode(tt.value)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, payload)
		})
	}
}

func TestJWT_Decode_EmptyPayload(t *testing.T) {
	j := NewJWT("secret")

	value, err := j.Encode(nil, time.Hour)
	require.NoError(t, err)

	payload, err := j.Decode(value)
	require.NoError(t, err)
	assert.NotNil(t, payload)
	assert.Empty(t, payload)
}
