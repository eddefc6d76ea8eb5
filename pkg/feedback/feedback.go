// Package feedback collects user-submitted feedback reports.
//
// This package defines a storage interface with implementations for
// different backends:
//   - file: Append-only JSONL file for single-instance deployments
//   - webhook: Forwarding to a chat webhook (Slack-compatible payload)
//   - mongo: MongoDB collection for hosted multi-instance deployments
package feedback

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wafertools/wafermap/pkg/errors"
)

// Report types accepted from clients. Anything else is coerced to TypeOther.
const (
	TypeIssue       = "issue"
	TypeImprovement = "improvement"
	TypeOther       = "other"
)

// MaxMessageLen caps the accepted message size.
const MaxMessageLen = 4000

// Entry is one stored feedback report.
type Entry struct {
	ID        string         `json:"id" bson:"_id"`
	Type      string         `json:"type" bson:"type"`
	Message   string         `json:"message" bson:"message"`
	Email     string         `json:"email,omitempty" bson:"email,omitempty"`
	Context   map[string]any `json:"context,omitempty" bson:"context,omitempty"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
}

// New builds a validated entry with a fresh ID. The message is required;
// unknown types fall back to TypeOther.
func New(kind, message, email string, context map[string]any) (Entry, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return Entry{}, errors.New(errors.ErrCodeInvalidInput, "feedback message is required")
	}
	if len(message) > MaxMessageLen {
		return Entry{}, errors.New(errors.ErrCodeInvalidInput, "feedback message exceeds %d characters", MaxMessageLen)
	}

	switch kind {
	case TypeIssue, TypeImprovement, TypeOther:
	default:
		kind = TypeOther
	}

	return Entry{
		ID:        uuid.NewString(),
		Type:      kind,
		Message:   message,
		Email:     strings.TrimSpace(email),
		Context:   context,
		CreatedAt: time.Now().UTC(),
	}, nil
}
