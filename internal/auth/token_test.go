package auth

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/coach-gateway/internal/domain"
)

func TestSignVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	codec := NewCodec("test-secret")
	claim := domain.Claim{
		Code: "demo2024",
		Exp:  time.Now().Add(time.Hour).UnixMilli(),
	}

	token, err := codec.Sign(claim)
	require.NoError(t, err)

	got, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, claim, *got)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	codec := NewCodec("test-secret")
	claim := domain.Claim{
		Code: "demo2024",
		Exp:  time.Now().Add(-time.Minute).UnixMilli(),
	}

	token, err := codec.Sign(claim)
	require.NoError(t, err)

	_, err = codec.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	claim := domain.Claim{
		Email: "a@b.com",
		Exp:   time.Now().Add(time.Hour).UnixMilli(),
	}

	token, err := NewCodec("right-secret").Sign(claim)
	require.NoError(t, err)

	_, err = NewCodec("wrong-secret").Verify(token)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestVerify_TamperedPayload(t *testing.T) {
	t.Parallel()

	codec := NewCodec("test-secret")
	claim := domain.Claim{
		Code: "demo2024",
		Exp:  time.Now().Add(time.Hour).UnixMilli(),
	}

	token, err := codec.Sign(claim)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(token)
	require.NoError(t, err)

	// Flip one bit in the signed data and re-encode.
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	data := []byte(env.Data)
	data[len(data)/2] ^= 0x01
	env.Data = string(data)
	tampered, err := json.Marshal(env)
	require.NoError(t, err)

	_, err = codec.Verify(base64.StdEncoding.EncodeToString(tampered))
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	codec := NewCodec("test-secret")

	tests := []struct {
		name  string
		token string
	}{
		{"not base64", "!!!not-base64!!!"},
		{"not json", base64.StdEncoding.EncodeToString([]byte("not json"))},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Verify(tt.token)
			assert.Error(t, err)
		})
	}
}

func TestVerify_MalformedClaim(t *testing.T) {
	t.Parallel()

	codec := NewCodec("test-secret")

	// A correctly signed envelope whose data is not a claim object.
	data := "not a claim"
	env := envelope{Data: data, Sig: codec.signature([]byte(data))}
	raw, err := json.Marshal(env)
	require.NoError(t, err)

	_, err = codec.Verify(base64.StdEncoding.EncodeToString(raw))
	assert.ErrorIs(t, err, ErrMalformedClaim)
}
