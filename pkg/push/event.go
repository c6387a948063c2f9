// Package push carries server-initiated news updates to viewers over
// Server-Sent Events: a fan-out hub on the server, the SSE wire codec, and a
// reconnecting client subscriber with a listener registry.
package push

import (
	"encoding/json"
	"fmt"

	"live-news/pkg/domain"
)

// EventNewsUpdate is the name of the event carrying a domain.NewsUpdate
const EventNewsUpdate = "news_update"

// Event is a single named message on the push channel
type Event struct {
	Name string
	Data []byte // JSON payload
}

// NewNewsUpdateEvent encodes update as a news_update event
func NewNewsUpdateEvent(update domain.NewsUpdate) (Event, error) {
	if update == nil {
		update = domain.NewsUpdate{}
	}
	data, err := json.Marshal(update)
	if err != nil {
		return Event{}, fmt.Errorf("failed to encode news update: %w", err)
	}
	return Event{Name: EventNewsUpdate, Data: data}, nil
}

// DecodeNewsUpdate decodes a news_update payload.
// The payload must be a JSON object; anything else is rejected.
func DecodeNewsUpdate(data []byte) (domain.NewsUpdate, error) {
	var update domain.NewsUpdate
	if err := json.Unmarshal(data, &update); err != nil {
		return nil, fmt.Errorf("malformed news update: %w", err)
	}
	if update == nil {
		return nil, fmt.Errorf("malformed news update: payload is null")
	}
	return update, nil
}
