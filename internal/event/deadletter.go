package event

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DeadLetterSchemaVersion is the version of the dead-letter line format
const DeadLetterSchemaVersion = "1.0"

// DeadLetterEntry is one JSON line in the dead-letter file.
type DeadLetterEntry struct {
	SchemaVersion string    `json:"schema_version"`
	Timestamp     time.Time `json:"timestamp"`
	Event         Event     `json:"event"`
	Attempts      int       `json:"attempts"`
	LastError     string    `json:"last_error,omitempty"`
}

// DeadLetterWriter appends events that could not be delivered to a JSONL file.
type DeadLetterWriter struct {
	file *os.File
	mu   sync.Mutex
}

// NewDeadLetterWriter opens (creating if needed) the dead-letter file at path.
func NewDeadLetterWriter(path string) (*DeadLetterWriter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, DeadLetterFilePermissions)
	if err != nil {
		return nil, err
	}
	return &DeadLetterWriter{file: f}, nil
}

// Write appends one entry.
func (w *DeadLetterWriter) Write(event Event, attempts int, lastError error) error {
	entry := DeadLetterEntry{
		SchemaVersion: DeadLetterSchemaVersion,
		Timestamp:     time.Now().UTC(),
		Event:         event,
		Attempts:      attempts,
	}
	if lastError != nil {
		entry.LastError = lastError.Error()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	_, err = w.file.Write(append(data, '\n'))
	return err
}

// Close closes the dead-letter file
func (w *DeadLetterWriter) Close() error {
	return w.file.Close()
}
