package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tazhibayda/family-gallery/internal/queue"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mail struct{ to, subject, body string }

type recMailer struct {
	sent []mail
	err  error
}

func (r *recMailer) Send(_ context.Context, to, subject, body string) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, mail{to, subject, body})
	return nil
}

func TestHandler_FamilyRegistered(t *testing.T) {
	id := primitive.NewObjectID()
	body, err := json.Marshal(queue.FamilyRegistered{FamilyUserID: id, Email: "ann@example.com", Name: "Ann"})
	require.NoError(t, err)

	m := &recMailer{}
	h := Handler(m, "owner@example.com")
	require.NoError(t, h(context.Background(), queue.Message{Key: queue.KeyFamilyRegistered, Body: body}))

	require.Len(t, m.sent, 1)
	assert.Equal(t, "owner@example.com", m.sent[0].to)
	assert.Contains(t, m.sent[0].body, "Ann <ann@example.com>")
	assert.Contains(t, m.sent[0].body, id.Hex())
}

func TestHandler_IgnoresAndRetries(t *testing.T) {
	m := &recMailer{}
	h := Handler(m, "owner@example.com")

	assert.NoError(t, h(context.Background(), queue.Message{Key: queue.KeyGalleryCreated, Body: []byte(`{}`)}))
	assert.NoError(t, h(context.Background(), queue.Message{Key: queue.KeyFamilyRegistered, Body: []byte(`not json`)}))
	assert.Empty(t, m.sent)

	m.err = errors.New("smtp down")
	err := h(context.Background(), queue.Message{Key: queue.KeyFamilyRegistered, Body: []byte(`{"email":"a@b.c"}`)})
	assert.ErrorIs(t, err, m.err)
}

func TestLogMailer(t *testing.T) {
	assert.NoError(t, LogMailer{}.Send(context.Background(), "a@b.c", "s", "b"))
}
