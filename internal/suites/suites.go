// Package suites holds the registered client test suites run against an
// external Scalaris node.
package suites

import (
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"sctest/internal/scalaris"
	"sctest/internal/suite"
)

// Registered identifiers, in default run order.
const (
	TransactionSingleOpID = "TransactionSingleOpTest.TestTransactionSingleOp"
	TransactionID         = "TransactionTest.TestTransaction"
	ReplicatedDHTID       = "ReplicatedDHTTest.TestReplicatedDHT"
	PubSubID              = "PubSubTest.TestPubSub"
)

// DefaultIdentifiers is the list run when none is given.
var DefaultIdentifiers = []string{
	TransactionSingleOpID,
	TransactionID,
	ReplicatedDHTID,
	PubSubID,
}

// Config is shared by every suite.
type Config struct {
	Scalaris scalaris.Config

	// CallbackListen enables the notification delivery test. The node must
	// be able to reach this address (through CallbackHost if set).
	CallbackListen string
	CallbackHost   string
	NotifyTimeout  time.Duration

	// KeyPrefix namespaces keys and topics; defaults to the current time in
	// milliseconds so runs against a shared node do not collide.
	KeyPrefix string

	Logger zerolog.Logger
}

func (c Config) withDefaults() Config {
	if c.KeyPrefix == "" {
		c.KeyPrefix = strconv.FormatInt(time.Now().UnixMilli(), 10)
	}
	if c.NotifyTimeout <= 0 {
		c.NotifyTimeout = 5 * time.Second
	}
	c.Scalaris.Logger = c.Logger
	return c
}

// Register adds every suite to reg.
func Register(reg *suite.Registry, cfg Config) error {
	cfg = cfg.withDefaults()
	factories := []struct {
		id string
		f  suite.Factory
	}{
		{TransactionSingleOpID, func() (*suite.Suite, error) { return transactionSingleOpSuite(cfg), nil }},
		{TransactionID, func() (*suite.Suite, error) { return transactionSuite(cfg), nil }},
		{ReplicatedDHTID, func() (*suite.Suite, error) { return replicatedDHTSuite(cfg), nil }},
		{PubSubID, func() (*suite.Suite, error) { return pubSubSuite(cfg), nil }},
	}
	for _, f := range factories {
		if err := reg.Register(f.id, f.f); err != nil {
			return fmt.Errorf("register suites: %w", err)
		}
	}
	return nil
}

// dial opens a connection closed when the test ends.
func dial(t *suite.T, cfg Config) *scalaris.Conn {
	conn, err := scalaris.Dial(cfg.Scalaris)
	t.Must(err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// closedConn returns a connection that has already been closed.
func closedConn(t *suite.T, cfg Config) *scalaris.Conn {
	conn, err := scalaris.Dial(cfg.Scalaris)
	t.Must(err)
	t.Must(conn.Close())
	return conn
}

func key(cfg Config, name string, i ...int) string {
	k := cfg.KeyPrefix + name
	for _, n := range i {
		k += strconv.Itoa(n)
	}
	return k
}
