package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"screener/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", WithRetry(3, time.Millisecond))
}

func TestClient_FetchScreener(t *testing.T) {
	c := createTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/assessments/screener", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"abcd-123","name":"BPDS","content":{"display_name":"BDS","sections":[]}}`))
	})

	screener, err := c.FetchScreener(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abcd-123", screener.ID)
	assert.Equal(t, "BDS", screener.Content.DisplayName)
}

func TestClient_FetchScreener_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := createTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"failed to load screener data","code":"SCREENER_UNAVAILABLE"}`))
			return
		}
		w.Write([]byte(`{"id":"abcd-123"}`))
	})

	screener, err := c.FetchScreener(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abcd-123", screener.ID)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_FetchScreener_GivesUp(t *testing.T) {
	var calls atomic.Int32
	c := createTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.FetchScreener(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_FetchScreener_NotFoundIsPermanent(t *testing.T) {
	var calls atomic.Int32
	c := createTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"screener not found","code":"SCREENER_NOT_FOUND","details":["id: abcd-123"]}`))
	})

	_, err := c.FetchScreener(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "SCREENER_NOT_FOUND", apiErr.Code)
	assert.Equal(t, []string{"id: abcd-123"}, apiErr.Details)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_SubmitAnswers(t *testing.T) {
	c := createTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/assessments/score", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req model.ScoreRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []model.Answer{{QuestionID: "question_a", Value: 2}}, req.Answers)

		w.Write([]byte(`{"results":["PHQ-9"]}`))
	})

	result, err := c.SubmitAnswers(context.Background(), []model.Answer{{QuestionID: "question_a", Value: 2}})
	require.NoError(t, err)
	assert.Equal(t, []string{"PHQ-9"}, result.Results)
}

func TestClient_SubmitAnswers_NotRetried(t *testing.T) {
	var calls atomic.Int32
	c := createTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"scoring reference data is unavailable","code":"REFERENCE_DATA_UNAVAILABLE"}`))
	})

	_, err := c.SubmitAnswers(context.Background(), nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.Temporary())
	assert.Contains(t, apiErr.Error(), "REFERENCE_DATA_UNAVAILABLE")
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_SubmitAnswers_EmptySendsArray(t *testing.T) {
	c := createTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.JSONEq(t, `[]`, string(raw["answers"]))
		w.Write([]byte(`{"results":null}`))
	})

	result, err := c.SubmitAnswers(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, result.Results)
}

func TestClient_NonJSONError(t *testing.T) {
	c := createTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadRequest)
	})

	_, err := c.SubmitAnswers(context.Background(), nil)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "bad gateway", apiErr.Message)
}
