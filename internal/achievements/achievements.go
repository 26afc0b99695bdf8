// Package achievements notifies the achievement-evaluation service after a
// successful import. The collaborator is strictly fire-and-forget: its
// return value and failures are ignored by the import pipeline.
package achievements

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// EventStrengthsImported is the event type emitted after a member's theme
// set is replaced by a committed import.
const EventStrengthsImported = "strengths_imported"

// Evaluator is the achievement-evaluation collaborator.
type Evaluator interface {
	Evaluate(ctx context.Context, memberID uuid.UUID, eventType string) error
}

// HTTPEvaluator posts evaluation events to the achievements service.
type HTTPEvaluator struct {
	endpoint string
	client   *http.Client
}

// NewHTTPEvaluator returns an evaluator posting to the given endpoint.
func NewHTTPEvaluator(endpoint string) *HTTPEvaluator {
	return &HTTPEvaluator{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type evaluateRequest struct {
	MemberID  string `json:"member_id"`
	EventType string `json:"event_type"`
}

// Evaluate posts one event. Callers are expected to log and swallow any
// returned error; an achievement outage must never fail an import.
func (e *HTTPEvaluator) Evaluate(ctx context.Context, memberID uuid.UUID, eventType string) error {
	body, err := json.Marshal(evaluateRequest{
		MemberID:  memberID.String(),
		EventType: eventType,
	})
	if err != nil {
		return fmt.Errorf("failed to encode evaluation event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build evaluation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach achievements service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("achievements service returned %d", resp.StatusCode)
	}
	return nil
}

// NopEvaluator ignores all events. Used by the CLI path and in tests when no
// achievements endpoint is configured.
type NopEvaluator struct{}

func (NopEvaluator) Evaluate(context.Context, uuid.UUID, string) error {
	return nil
}
