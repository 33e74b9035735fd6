package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDocumentEvents(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		event    Event
		wantType string
		wantID   string
	}{
		{"processed", DocumentProcessed{DocumentID: "d1", ChunkCount: 12, OccurredAt: at}, "document.processed", "d1"},
		{"failed", DocumentFailed{DocumentID: "d2", Reason: "unreadable", OccurredAt: at}, "document.failed", "d2"},
		{"reprocess", DocumentReprocessRequested{DocumentID: "d3", OccurredAt: at}, "document.reprocess_requested", "d3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.event.EventType())
			assert.Equal(t, tt.wantID, tt.event.Payload()["document_id"])
			assert.Equal(t, "2025-03-01T10:00:00Z", tt.event.Payload()["occurred_at"])
			assert.Equal(t, at, tt.event.Timestamp())
		})
	}
}

func TestBaseEvent_String(t *testing.T) {
	e := BaseEvent{Type: "document.reprocess_requested", Data: map[string]interface{}{"document_id": "d1", "n": 3}}

	assert.Equal(t, "d1", e.String("document_id"))
	assert.Equal(t, "", e.String("n"))
	assert.Equal(t, "", e.String("missing"))
}
