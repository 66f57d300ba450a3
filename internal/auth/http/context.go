// Package http provides the authentication middleware and permission gates.
package http

import (
	"context"

	tokenDomain "github.com/natterhq/natter/internal/token/domain"
)

// subjectKey is a context key type for the authenticated username.
type subjectKey struct{}

// tokenIDKey is a context key type for the presented token ID.
type tokenIDKey struct{}

// attributesKey is a context key type for the token attributes.
type attributesKey struct{}

// WithSubject stores the authenticated username in the context.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectKey{}, subject)
}

// GetSubject retrieves the authenticated username from the context.
// Returns ("", false) for anonymous requests.
func GetSubject(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(subjectKey{}).(string)
	return subject, ok
}

// WithTokenID stores the presented token ID so logout can revoke it.
func WithTokenID(ctx context.Context, tokenID string) context.Context {
	return context.WithValue(ctx, tokenIDKey{}, tokenID)
}

// GetTokenID retrieves the presented token ID from the context.
// Only set when the request authenticated via token.
func GetTokenID(ctx context.Context) (string, bool) {
	tokenID, ok := ctx.Value(tokenIDKey{}).(string)
	return tokenID, ok
}

// WithAttributes stores the token attributes in the context.
func WithAttributes(ctx context.Context, attrs tokenDomain.Attributes) context.Context {
	return context.WithValue(ctx, attributesKey{}, attrs)
}

// GetAttributes retrieves the token attributes from the context.
func GetAttributes(ctx context.Context) (tokenDomain.Attributes, bool) {
	attrs, ok := ctx.Value(attributesKey{}).(tokenDomain.Attributes)
	return attrs, ok
}
