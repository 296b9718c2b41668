package events

import "time"

// ExportKind distinguishes the two export flavours.
type ExportKind string

// Export kinds.
const (
	ExportAgent            ExportKind = "agent"
	ExportAgentWithMessage ExportKind = "agentWithMessage"
)

// ExportEvent reports the outcome of an export.
type ExportEvent struct {
	SessionID string
	Kind      ExportKind
	Path      string
	Err       string
	Timestamp time.Time
}

// NewExportCompletedEvent reports a written export file.
func NewExportCompletedEvent(id string, kind ExportKind, path string) ExportEvent {
	return ExportEvent{
		SessionID: id,
		Kind:      kind,
		Path:      path,
		Timestamp: time.Now(),
	}
}

// NewExportFailedEvent reports an export that could not be written.
func NewExportFailedEvent(id string, kind ExportKind, err error) ExportEvent {
	e := ExportEvent{
		SessionID: id,
		Kind:      kind,
		Timestamp: time.Now(),
	}
	if err != nil {
		e.Err = err.Error()
	}
	return e
}

// Failed reports whether the export did not complete.
func (e ExportEvent) Failed() bool {
	return e.Err != ""
}
