package store

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	apperrors "github.com/natterhq/natter/internal/errors"
	tokenDomain "github.com/natterhq/natter/internal/token/domain"
)

// statelessPayload is the self-contained token body.
type statelessPayload struct {
	Subject    string                 `json:"sub"`
	Expiry     int64                  `json:"exp"`
	Attributes tokenDomain.Attributes `json:"attrs,omitempty"`
}

// StatelessTokenStore issues self-contained tokens: the whole token state
// travels in the ID as "<base64url(json)>.<tag>". Nothing is persisted, so
// Revoke cannot invalidate an outstanding token before its expiry. Use only
// where that trade-off is acceptable.
type StatelessTokenStore struct {
	key []byte
	now func() time.Time
}

// NewStatelessTokenStore creates a stateless store. The MAC key is derived
// from the configured secret via HKDF-SHA256.
func NewStatelessTokenStore(secret []byte) (*StatelessTokenStore, error) {
	key, err := deriveMACKey(secret)
	if err != nil {
		return nil, err
	}
	return &StatelessTokenStore{key: key, now: time.Now}, nil
}

// Create serializes the token state and MACs it.
func (s *StatelessTokenStore) Create(ctx context.Context, token *tokenDomain.Token) (string, error) {
	payload := statelessPayload{
		Subject:    token.Subject,
		Expiry:     token.Expiry.Unix(),
		Attributes: token.Attributes,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to encode token payload")
	}

	body := base64.RawURLEncoding.EncodeToString(data)
	return body + "." + s.tag(body), nil
}

// Read verifies the tag, decodes the payload and checks expiry.
func (s *StatelessTokenStore) Read(ctx context.Context, tokenID string) (*tokenDomain.Token, error) {
	idx := strings.LastIndex(tokenID, ".")
	if idx < 1 || idx == len(tokenID)-1 {
		return nil, tokenDomain.ErrTokenNotFound
	}

	body := tokenID[:idx]
	presented, err := base64.RawURLEncoding.DecodeString(tokenID[idx+1:])
	if err != nil {
		return nil, tokenDomain.ErrTokenNotFound
	}

	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(body))
	if !hmac.Equal(presented, mac.Sum(nil)) {
		return nil, tokenDomain.ErrTokenNotFound
	}

	data, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return nil, tokenDomain.ErrTokenNotFound
	}

	var payload statelessPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, tokenDomain.ErrTokenNotFound
	}

	expiry := time.Unix(payload.Expiry, 0)
	if !expiry.After(s.now()) {
		return nil, tokenDomain.ErrTokenNotFound
	}

	return &tokenDomain.Token{
		Subject:    payload.Subject,
		Expiry:     expiry,
		Attributes: payload.Attributes,
	}, nil
}

// Revoke is a no-op: stateless tokens stay valid until expiry.
func (s *StatelessTokenStore) Revoke(ctx context.Context, tokenID string) error {
	return nil
}

func (s *StatelessTokenStore) tag(body string) string {
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(body))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
