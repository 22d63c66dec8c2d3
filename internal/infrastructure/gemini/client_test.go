package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/shelflens/backend/internal/domain"
)

func newTestClient(baseURL string) (*Client, *[]time.Duration) {
	client := NewClient("test-api-key", baseURL, "test-model", DefaultBackoffPolicy(), zap.NewNop())
	client.rateLimiter = rate.NewLimiter(rate.Inf, 0)

	delays := &[]time.Duration{}
	client.sleep = func(ctx context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
	return client, delays
}

func byNameRequest() *domain.QueryRequest {
	return &domain.QueryRequest{
		Mode:        domain.QueryByName,
		ProductName: "Coca-Cola",
		Language:    "en-US",
	}
}

func writeReply(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{
				"parts": []map[string]string{{"text": text}},
			}},
		},
	})
}

func TestGenerateProductInfo_Success(t *testing.T) {
	var gotBody generateRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/test-model:generateContent", r.URL.Path)
		assert.Equal(t, "test-api-key", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		writeReply(w, `{"productName":"Coca-Cola"}`)
	}))
	defer server.Close()

	client, delays := newTestClient(server.URL)

	text, err := client.GenerateProductInfo(context.Background(), byNameRequest())

	require.NoError(t, err)
	assert.Equal(t, `{"productName":"Coca-Cola"}`, text)
	assert.Empty(t, *delays)

	// The request carries both the prompt and the generation constraint
	require.Len(t, gotBody.Contents, 1)
	assert.Contains(t, gotBody.Contents[0].Parts[0].Text, "Coca-Cola")
	assert.Equal(t, "application/json", gotBody.GenerationConfig.ResponseMIMEType)
	require.NotNil(t, gotBody.GenerationConfig.ResponseSchema)
	assert.ElementsMatch(t, domain.RequiredFields(), gotBody.GenerationConfig.ResponseSchema.Required)
}

func TestGenerateProductInfo_RateLimitedThenSuccess(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls <= 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		writeReply(w, `{"ok":true}`)
	}))
	defer server.Close()

	client, delays := newTestClient(server.URL)

	text, err := client.GenerateProductInfo(context.Background(), byNameRequest())

	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, text)
	assert.Equal(t, 4, calls)
	assert.Equal(t, []time.Duration{
		1000 * time.Millisecond,
		2000 * time.Millisecond,
		4000 * time.Millisecond,
	}, *delays)
}

func TestGenerateProductInfo_RetriesExhausted(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, delays := newTestClient(server.URL)

	text, err := client.GenerateProductInfo(context.Background(), byNameRequest())

	assert.Empty(t, text)
	assert.Equal(t, 5, calls)
	assert.Len(t, *delays, 4)

	te, ok := domain.AsTransportError(err)
	require.True(t, ok)
	assert.Equal(t, domain.TransportRetriesExhausted, te.Kind)

	// The last cause is preserved
	cause, ok := domain.AsTransportError(te.Cause)
	require.True(t, ok)
	assert.Equal(t, domain.TransportRateLimited, cause.Kind)
}

func TestGenerateProductInfo_TransientServerFailure(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, _ := newTestClient(server.URL)

	_, err := client.GenerateProductInfo(context.Background(), byNameRequest())

	assert.Equal(t, 5, calls)
	te, ok := domain.AsTransportError(err)
	require.True(t, ok)
	assert.Equal(t, domain.TransportRetriesExhausted, te.Kind)
}

func TestGenerateProductInfo_MalformedEnvelopeNotRetried(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "no candidates", body: `{"candidates":[]}`},
		{name: "no parts", body: `{"candidates":[{"content":{"parts":[]}}]}`},
		{name: "empty text", body: `{"candidates":[{"content":{"parts":[{"text":""}]}}]}`},
		{name: "not json", body: `<html>unexpected</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, delays := newTestClient(server.URL)

			_, err := client.GenerateProductInfo(context.Background(), byNameRequest())

			assert.Equal(t, 1, calls, "a malformed envelope must not be retried")
			assert.Empty(t, *delays)

			te, ok := domain.AsTransportError(err)
			require.True(t, ok)
			assert.Equal(t, domain.TransportInvalidResponseShape, te.Kind)
		})
	}
}

func TestGenerateProductInfo_ConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing is listening any more

	client, delays := newTestClient(server.URL)

	_, err := client.GenerateProductInfo(context.Background(), byNameRequest())

	assert.Len(t, *delays, 4)
	te, ok := domain.AsTransportError(err)
	require.True(t, ok)
	assert.Equal(t, domain.TransportRetriesExhausted, te.Kind)
}

func TestGenerateProductInfo_ContractViolationSkipsTransport(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	client, _ := newTestClient(server.URL)

	_, err := client.GenerateProductInfo(context.Background(), &domain.QueryRequest{
		Mode:     domain.QueryByImage,
		Language: "en-US",
	})

	assert.ErrorIs(t, err, domain.ErrContractViolation)
	assert.Equal(t, 0, calls)
}
