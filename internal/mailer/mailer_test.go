package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-insight/internal/storage"
)

type recordingSender struct {
	events []storage.ContactEvent
	err    error
}

func (r *recordingSender) SendContactNotification(_ context.Context, event storage.ContactEvent) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, event)
	return nil
}

func testEvent() storage.ContactEvent {
	return storage.ContactEvent{
		MessageID: "11111111-2222-3333-4444-555555555555",
		Name:      "Jane Doe",
		Email:     "jane@example.com",
		Subject:   "Question about reports",
		Body:      "Hello,\nHow long are reports retained?",
		CreatedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestHandleSendsAndAcks(t *testing.T) {
	sender := &recordingSender{}
	c := NewConsumer(nil, nil, sender, zerolog.Nop())

	body, err := json.Marshal(testEvent())
	require.NoError(t, err)

	assert.True(t, c.handle(body))
	require.Len(t, sender.events, 1)
	assert.Equal(t, "jane@example.com", sender.events[0].Email)
}

func TestHandleRequeuesOnSendFailure(t *testing.T) {
	sender := &recordingSender{err: errors.New("ses throttled")}
	c := NewConsumer(nil, nil, sender, zerolog.Nop())

	body, err := json.Marshal(testEvent())
	require.NoError(t, err)

	assert.False(t, c.handle(body))
}

func TestHandleDropsMalformedMessage(t *testing.T) {
	sender := &recordingSender{}
	c := NewConsumer(nil, nil, sender, zerolog.Nop())

	assert.True(t, c.handle([]byte("{not json")))
	assert.Empty(t, sender.events)
}

func TestBuildContactSubject(t *testing.T) {
	event := testEvent()
	assert.Equal(t, "[Contact] Question about reports", buildContactSubject(event))

	event.Subject = ""
	assert.Equal(t, "[Contact] Message from Jane Doe", buildContactSubject(event))
}

func TestBuildContactBodies(t *testing.T) {
	event := testEvent()
	event.Body = "a <script> tag"

	text := buildContactText(event)
	assert.Contains(t, text, "Jane Doe <jane@example.com>")
	assert.Contains(t, text, "a <script> tag")

	html := buildContactHTML(event)
	assert.Contains(t, html, "a &lt;script&gt; tag")
	assert.NotContains(t, html, "<script>")
}
