package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/spec-kit/coach-gateway/internal/domain"
)

// Token verification failures. Callers must not expose which variant
// occurred; the HTTP boundary collapses all of them to a single 401.
var (
	ErrMalformedToken = errors.New("malformed token")
	ErrBadSignature   = errors.New("bad token signature")
	ErrMalformedClaim = errors.New("malformed token claim")
	ErrTokenExpired   = errors.New("token expired")
)

// Codec signs and verifies stateless bearer tokens. The wire format is
// base64 of a JSON envelope {data, sig} where data is the claim JSON and
// sig is the lowercase hex HMAC-SHA256 of data under the signing secret.
type Codec struct {
	secret []byte
	now    func() time.Time
}

type envelope struct {
	Data string `json:"data"`
	Sig  string `json:"sig"`
}

// NewCodec builds a codec over the signing secret.
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret), now: time.Now}
}

// Ready reports whether a signing secret is configured.
func (c *Codec) Ready() bool {
	return len(c.secret) > 0
}

// Sign serializes the claim and wraps it in a signed envelope.
func (c *Codec) Sign(claim domain.Claim) (string, error) {
	data, err := json.Marshal(claim)
	if err != nil {
		return "", err
	}

	env := envelope{Data: string(data), Sig: c.signature(data)}
	raw, err := json.Marshal(env)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// Verify decodes and validates a token, returning its claim.
func (c *Codec) Verify(token string) (*domain.Claim, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrMalformedToken
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, ErrMalformedToken
	}

	expected := c.signature([]byte(env.Data))
	if !hmac.Equal([]byte(expected), []byte(env.Sig)) {
		return nil, ErrBadSignature
	}

	var claim domain.Claim
	if err := json.Unmarshal([]byte(env.Data), &claim); err != nil {
		return nil, ErrMalformedClaim
	}

	if claim.Expired(c.now()) {
		return nil, ErrTokenExpired
	}
	return &claim, nil
}

func (c *Codec) signature(data []byte) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write(data)
	return hex.EncodeToString(mac.Sum(nil))
}
