package push

import (
	"testing"

	"live-news/pkg/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishToSubscribers(t *testing.T) {
	hub := NewHub(2)
	a, cancelA := hub.Subscribe()
	b, cancelB := hub.Subscribe()
	defer cancelA()
	defer cancelB()

	assert.Equal(t, 2, hub.Count())

	ev, err := NewNewsUpdateEvent(domain.NewsUpdate{domain.Sports: {{Title: "Goal"}}})
	require.NoError(t, err)
	assert.Equal(t, 2, hub.Publish(ev))

	assert.Equal(t, ev, <-a)
	assert.Equal(t, ev, <-b)
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewHub(1)
	_, cancel := hub.Subscribe()
	defer cancel()

	ev := Event{Name: "x", Data: []byte("{}")}
	assert.Equal(t, 1, hub.Publish(ev))
	assert.Equal(t, 0, hub.Publish(ev), "full buffer should drop the event")
}

func TestHub_CancelUnsubscribesAndCloses(t *testing.T) {
	hub := NewHub(0)
	ch, cancel := hub.Subscribe()

	cancel()
	cancel()

	assert.Equal(t, 0, hub.Count())
	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, hub.Publish(Event{Name: "x"}))
}

func TestDecodeNewsUpdate(t *testing.T) {
	update, err := DecodeNewsUpdate([]byte(`{"technology":[{"title":"T","image":"","summary":"S","url":"https://t"}]}`))
	require.NoError(t, err)
	assert.Equal(t, []domain.Article{{Title: "T", Summary: "S", URL: "https://t"}}, update[domain.Technology])

	for _, bad := range []string{``, `null`, `[]`, `{"technology": "nope"}`, `{`} {
		_, err := DecodeNewsUpdate([]byte(bad))
		assert.Error(t, err, "payload %q", bad)
	}
}
