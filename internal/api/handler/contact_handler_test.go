package handler

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleContactAcceptsWithoutBackends(t *testing.T) {
	h := NewContactHandler(nil, zerolog.Nop())

	resp, err := h.HandleContact(context.Background(), ContactRequest{
		Name:  "Jane Doe",
		Email: "Jane@Example.com",
		Body:  "How long are reports retained?",
	})
	require.NoError(t, err)

	assert.Len(t, resp.MessageID, 36)
	assert.Equal(t, "received", resp.Status)
}

func TestHandleContactRequiresNameAndBody(t *testing.T) {
	h := NewContactHandler(nil, zerolog.Nop())

	_, err := h.HandleContact(context.Background(), ContactRequest{
		Email: "jane@example.com",
		Body:  "hello",
	})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = h.HandleContact(context.Background(), ContactRequest{
		Name:  "Jane",
		Email: "jane@example.com",
		Body:  "   ",
	})
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestHandleContactRejectsBadEmail(t *testing.T) {
	h := NewContactHandler(nil, zerolog.Nop())

	for _, email := range []string{"", "no-at-sign", "@example.com", "jane@", "jane@nodot"} {
		_, err := h.HandleContact(context.Background(), ContactRequest{
			Name:  "Jane",
			Email: email,
			Body:  "hello there",
		})
		assert.ErrorIs(t, err, ErrMissingFields, "email %q", email)
	}
}

func TestNormalizeEmail(t *testing.T) {
	email, err := normalizeEmail("  Jane.Doe@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "jane.doe@example.com", email)
}
