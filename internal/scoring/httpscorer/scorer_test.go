package httpscorer

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patentdesk/internal/config"
	"patentdesk/internal/port"
)

func TestScorer_Score(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/likelihood", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`{"data":{"likelihood_rate":64.5}}`))
	}))
	defer srv.Close()

	s := NewScorer(&config.ScorerConfig{BaseURL: srv.URL + "/", APIKey: "secret", TimeoutSecs: 5})
	rate, err := s.Score(context.Background(), port.ScoreInput{
		ApplicationNo: "PA-2025-000001",
		Title:         "Widget",
		FileName:      "abstract.pdf",
		ContentType:   "application/pdf",
		Content:       []byte("%PDF-1.4"),
	})

	require.NoError(t, err)
	assert.InDelta(t, 64.5, rate, 0.0001)
	assert.Equal(t, "PA-2025-000001", got["application_no"])
	doc := got["document"].(map[string]interface{})
	assert.Equal(t, "JVBERi0xLjQ=", doc["data"])
}

func TestScorer_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	s := NewScorer(&config.ScorerConfig{BaseURL: srv.URL})
	_, err := s.Score(context.Background(), port.ScoreInput{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestParseRate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    float64
		wantErr bool
	}{
		{"nested rate", `{"data":{"likelihood_rate":80}}`, 80, false},
		{"top level rate", `{"likelihood_rate":12.5}`, 12.5, false},
		{"fractional score scaled", `{"score":0.42}`, 42, false},
		{"percentage score kept", `{"data":{"score":55}}`, 55, false},
		{"out of range", `{"likelihood_rate":140}`, 0, true},
		{"missing", `{"data":{}}`, 0, true},
		{"string value ignored", `{"likelihood_rate":"high"}`, 0, true},
		{"invalid json", `not json`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRate([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}

func TestDisabled(t *testing.T) {
	_, err := Disabled().Score(context.Background(), port.ScoreInput{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
