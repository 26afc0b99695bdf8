package achievements

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPEvaluatorPostsEvent(t *testing.T) {
	memberID := uuid.New()
	var received evaluateRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	e := NewHTTPEvaluator(srv.URL)
	err := e.Evaluate(context.Background(), memberID, EventStrengthsImported)

	require.NoError(t, err)
	assert.Equal(t, memberID.String(), received.MemberID)
	assert.Equal(t, EventStrengthsImported, received.EventType)
}

func TestHTTPEvaluatorServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	e := NewHTTPEvaluator(srv.URL)
	err := e.Evaluate(context.Background(), uuid.New(), EventStrengthsImported)

	assert.Error(t, err)
}

func TestHTTPEvaluatorUnreachable(t *testing.T) {
	e := NewHTTPEvaluator("http://127.0.0.1:1/achievements")
	err := e.Evaluate(context.Background(), uuid.New(), EventStrengthsImported)

	assert.Error(t, err)
}

func TestNopEvaluator(t *testing.T) {
	assert.NoError(t, NopEvaluator{}.Evaluate(context.Background(), uuid.New(), EventStrengthsImported))
}
