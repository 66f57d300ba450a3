// Package domain defines the token entities used by the session layer.
package domain

import (
	"encoding/json"
	"time"
)

// Attribute is a single key/value pair attached to a token.
type Attribute struct {
	Key   string `json:"k"`
	Value string `json:"v"`
}

// Attributes is an ordered collection of token attributes. Order is
// preserved across serialization; stores treat the serialized form as an
// opaque blob.
type Attributes []Attribute

// Get returns the value for the first attribute with the given key.
func (a Attributes) Get(key string) (string, bool) {
	for _, attr := range a {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return "", false
}

// Set replaces the first attribute with the given key, or appends one.
func (a Attributes) Set(key, value string) Attributes {
	for i, attr := range a {
		if attr.Key == key {
			a[i].Value = value
			return a
		}
	}
	return append(a, Attribute{Key: key, Value: value})
}

// Encode serializes the attributes as a JSON array, preserving order.
func (a Attributes) Encode() (string, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(a)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeAttributes parses a serialized attribute blob.
func DecodeAttributes(blob string) (Attributes, error) {
	if blob == "" {
		return nil, nil
	}
	var attrs Attributes
	if err := json.Unmarshal([]byte(blob), &attrs); err != nil {
		return nil, err
	}
	return attrs, nil
}

// Token is a session token bound to a subject with an expiry and an ordered
// set of attributes.
type Token struct {
	Subject    string
	Expiry     time.Time
	Attributes Attributes
}

// Expired reports whether the token has expired at the given instant.
func (t *Token) Expired(now time.Time) bool {
	return !t.Expiry.After(now)
}

// Record is the persisted form of a token. The record is keyed by the
// digest of the client-held ID, never the ID itself.
type Record struct {
	Digest     string
	Subject    string
	Expiry     time.Time
	Attributes string
}
