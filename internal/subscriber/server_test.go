package subscriber

import (
	"bytes"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T) *Server {
	t.Helper()
	s, err := Start(Config{Logger: zerolog.Nop()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close(context.Background()) })
	return s
}

func post(t *testing.T, url, body string) int {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestServer_ReceivesNotification(t *testing.T) {
	s := startServer(t)

	code := post(t, s.URL(), `{"jsonrpc":"2.0","method":"notify","params":["other","x"],"id":0}`)
	assert.Equal(t, http.StatusOK, code)
	code = post(t, s.URL(), `{"jsonrpc":"2.0","method":"notify","params":["topic","content"],"id":1}`)
	assert.Equal(t, http.StatusOK, code)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	n, err := s.Wait(ctx, "topic")
	require.NoError(t, err)
	assert.Equal(t, Notification{Topic: "topic", Content: "content"}, n)
}

func TestServer_RejectsBadRequests(t *testing.T) {
	s := startServer(t)

	assert.Equal(t, http.StatusBadRequest, post(t, s.URL(), `{"method":"publish","params":["a","b"]}`))
	assert.Equal(t, http.StatusBadRequest, post(t, s.URL(), `{"method":"notify","params":["a"]}`))
}

func TestServer_WaitTimesOut(t *testing.T) {
	s := startServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := s.Wait(ctx, "topic")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestServer_AdvertiseHost(t *testing.T) {
	s, err := Start(Config{AdvertiseHost: "runner.internal", Logger: zerolog.Nop()})
	require.NoError(t, err)
	defer s.Close(context.Background())
	assert.Contains(t, s.URL(), "http://runner.internal:")
	assert.Contains(t, s.URL(), "/notify")
}
