package events

import "time"

const (
	TypeDocumentProcessed          = "document.processed"
	TypeDocumentFailed             = "document.failed"
	TypeDocumentReprocessRequested = "document.reprocess_requested"
)

// DocumentProcessed is emitted once a document's chunk set is stored.
type DocumentProcessed struct {
	DocumentID string
	ChunkCount int
	PageCount  int
	OccurredAt time.Time
}

func (e DocumentProcessed) EventType() string { return TypeDocumentProcessed }

func (e DocumentProcessed) Payload() map[string]interface{} {
	return map[string]interface{}{
		"document_id": e.DocumentID,
		"chunk_count": e.ChunkCount,
		"page_count":  e.PageCount,
		"occurred_at": e.OccurredAt.Format(time.RFC3339),
	}
}

func (e DocumentProcessed) Timestamp() time.Time { return e.OccurredAt }

// DocumentFailed is emitted when processing a document fails.
type DocumentFailed struct {
	DocumentID string
	Reason     string
	OccurredAt time.Time
}

func (e DocumentFailed) EventType() string { return TypeDocumentFailed }

func (e DocumentFailed) Payload() map[string]interface{} {
	return map[string]interface{}{
		"document_id": e.DocumentID,
		"reason":      e.Reason,
		"occurred_at": e.OccurredAt.Format(time.RFC3339),
	}
}

func (e DocumentFailed) Timestamp() time.Time { return e.OccurredAt }

// DocumentReprocessRequested asks the service to rebuild a document's chunks.
type DocumentReprocessRequested struct {
	DocumentID string
	OccurredAt time.Time
}

func (e DocumentReprocessRequested) EventType() string { return TypeDocumentReprocessRequested }

func (e DocumentReprocessRequested) Payload() map[string]interface{} {
	return map[string]interface{}{
		"document_id": e.DocumentID,
		"occurred_at": e.OccurredAt.Format(time.RFC3339),
	}
}

func (e DocumentReprocessRequested) Timestamp() time.Time { return e.OccurredAt }
