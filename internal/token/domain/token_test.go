package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttributes_GetSet(t *testing.T) {
	var attrs Attributes

	_, ok := attrs.Get("scope")
	assert.False(t, ok)

	attrs = attrs.Set("scope", "full")
	attrs = attrs.Set("device", "mobile")

	value, ok := attrs.Get("scope")
	assert.True(t, ok)
	assert.Equal(t, "full", value)

	// Set replaces in place, keeping the original position.
	attrs = attrs.Set("scope", "readonly")
	assert.Len(t, attrs, 2)
	assert.Equal(t, "scope", attrs[0].Key)
	assert.Equal(t, "readonly", attrs[0].Value)
}

func TestAttributes_EncodeDecode(t *testing.T) {
	attrs := Attributes{
		{Key: "scope", Value: "full"},
		{Key: "device", Value: "mobile"},
	}

	encoded, err := attrs.Encode()
	require.NoError(t, err)

	decoded, err := DecodeAttributes(encoded)
	require.NoError(t, err)

	// Order survives the round trip.
	require.Len(t, decoded, 2)
	assert.Equal(t, "scope", decoded[0].Key)
	assert.Equal(t, "device", decoded[1].Key)
}

func TestAttributes_Encode_Empty(t *testing.T) {
	var attrs Attributes

	encoded, err := attrs.Encode()
	require.NoError(t, err)
	assert.Equal(t, "[]", encoded)
}

func TestDecodeAttributes_Invalid(t *testing.T) {
	_, err := DecodeAttributes("{not json")
	assert.Error(t, err)
}

func TestDecodeAttributes_Empty(t *testing.T) {
	attrs, err := DecodeAttributes("")
	require.NoError(t, err)
	assert.Nil(t, attrs)
}

func TestToken_Expired(t *testing.T) {
	now := time.Now()

	token := &Token{Subject: "alice", Expiry: now.Add(time.Minute)}
	assert.False(t, token.Expired(now))

	token.Expiry = now.Add(-time.Minute)
	assert.True(t, token.Expired(now))

	// A token expiring exactly now is expired.
	token.Expiry = now
	assert.True(t, token.Expired(now))
}
