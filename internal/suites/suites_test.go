package suites

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sctest/internal/domain"
	"sctest/internal/scalaris"
	"sctest/internal/scalaris/scalaristest"
	"sctest/internal/suite"
)

func registry(t *testing.T, cfg Config) *suite.Registry {
	t.Helper()
	reg := suite.NewRegistry()
	require.NoError(t, Register(reg, cfg))
	return reg
}

func runSuite(t *testing.T, reg *suite.Registry, id string) []domain.TestResult {
	t.Helper()
	ident, err := domain.ParseIdentifier(id)
	require.NoError(t, err)
	s, err := reg.Resolve(ident)
	require.NoError(t, err)

	var results []domain.TestResult
	for _, tc := range s.Tests {
		results = append(results, s.Run(context.Background(), tc))
	}
	return results
}

func TestRegister_DefaultOrder(t *testing.T) {
	reg := registry(t, Config{Logger: zerolog.Nop()})
	assert.Equal(t, DefaultIdentifiers, reg.Identifiers())
	assert.ErrorIs(t, Register(reg, Config{}), suite.ErrDuplicate)
}

func TestSuites_PassAgainstNode(t *testing.T) {
	srv := scalaristest.NewServer()
	defer srv.Close()

	reg := registry(t, Config{
		Scalaris:       scalaris.Config{URL: srv.URL},
		CallbackListen: "127.0.0.1:0",
		NotifyTimeout:  2 * time.Second,
		KeyPrefix:      "1700000000000",
		Logger:         zerolog.Nop(),
	})

	for _, id := range DefaultIdentifiers {
		t.Run(id, func(t *testing.T) {
			results := runSuite(t, reg, id)
			require.NotEmpty(t, results)
			for _, r := range results {
				assert.Equal(t, domain.StatusPass, r.Status, "%s: %s", r.FullName(), r.Message)
			}
		})
	}
}

func TestSuites_SkipDeliveryWithoutCallback(t *testing.T) {
	srv := scalaristest.NewServer()
	defer srv.Close()

	reg := registry(t, Config{Scalaris: scalaris.Config{URL: srv.URL}, Logger: zerolog.Nop()})
	s, err := reg.Resolve(domain.Identifier{Module: "PubSubTest", Class: "TestPubSub", Method: "testSubscription1"})
	require.NoError(t, err)

	res := s.Run(context.Background(), s.Tests[0])
	assert.Equal(t, domain.StatusSkip, res.Status)
}

func TestSuites_ErrorWhenNodeUnreachable(t *testing.T) {
	down := httptest.NewServer(http.NotFoundHandler())
	url := down.URL
	down.Close()

	reg := registry(t, Config{Scalaris: scalaris.Config{URL: url, Timeout: time.Second}, Logger: zerolog.Nop()})
	results := runSuite(t, reg, TransactionSingleOpID)

	byName := map[string]domain.TestResult{}
	for _, r := range results {
		byName[r.Name] = r
	}
	// Closed-connection tests never touch the network.
	assert.Equal(t, domain.StatusPass, byName["testRead_NotConnected"].Status)
	// Tests that need the node report an unexpected error.
	assert.Equal(t, domain.StatusError, byName["testWrite1"].Status)
	assert.Contains(t, byName["testWrite1"].Message, "connection error")
	// Expected not-found turns into an assertion failure.
	assert.Equal(t, domain.StatusFail, byName["testRead_NotFound"].Status)
}
