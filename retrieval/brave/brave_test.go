package brave

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrieve(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("X-Subscription-Token"))
		assert.Equal(t, "capital of France", r.URL.Query().Get("q"))
		assert.Equal(t, "2", r.URL.Query().Get("count"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"web": {"results": [
				{"title": "France", "description": "Paris is the capital of France."},
				{"title": "Empty", "description": ""},
				{"title": "Seine", "description": "The Seine flows through Paris."}
			]}
		}`))
	}))
	defer server.Close()

	r, err := New("test-key", WithBaseURL(server.URL))
	require.NoError(t, err)

	passages, err := r.Retrieve(context.Background(), "capital of France", 2)
	require.NoError(t, err)
	require.Len(t, passages, 2)
	assert.Equal(t, "France", passages[0].Title)
	assert.Equal(t, "Paris is the capital of France.", passages[0].Text)
	assert.Equal(t, "Seine", passages[1].Title)
}

func TestRetrieveAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	r, err := New("test-key", WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = r.Retrieve(context.Background(), "anything", 3)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestNewRequiresKey(t *testing.T) {
	t.Setenv("BRAVE_API_KEY", "")
	_, err := New("")
	assert.Error(t, err)
}
