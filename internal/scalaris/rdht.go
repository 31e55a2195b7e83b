package scalaris

import (
	"context"
	"time"
)

// DefaultDeleteTimeout is used by Delete when timeout is zero.
const DefaultDeleteTimeout = 2 * time.Second

// DeleteResult reports per-replica outcomes of a delete. Results holds one
// of "ok", "locks_set" or "undef" per replica.
type DeleteResult struct {
	OK      int      `json:"ok"`
	Results []string `json:"results"`
}

// LocksSet counts replicas that refused the delete because of locks.
func (r DeleteResult) LocksSet() int {
	n := 0
	for _, s := range r.Results {
		if s == "locks_set" {
			n++
		}
	}
	return n
}

// Undef counts replicas that did not answer in time.
func (r DeleteResult) Undef() int {
	n := 0
	for _, s := range r.Results {
		if s == "undef" {
			n++
		}
	}
	return n
}

// ReplicatedDHT exposes the non-transactional replica operations.
type ReplicatedDHT struct {
	conn *Conn
}

// NewReplicatedDHT dials its own connection.
func NewReplicatedDHT(cfg Config) (*ReplicatedDHT, error) {
	conn, err := Dial(cfg)
	if err != nil {
		return nil, err
	}
	return &ReplicatedDHT{conn: conn}, nil
}

// NewReplicatedDHTWith uses an existing connection.
func NewReplicatedDHTWith(conn *Conn) *ReplicatedDHT {
	return &ReplicatedDHT{conn: conn}
}

// Close closes the underlying connection.
func (d *ReplicatedDHT) Close() error { return d.conn.Close() }

// Delete removes every replica of key. Deleting a key that does not exist
// is not an error; it reports zero ok replicas.
func (d *ReplicatedDHT) Delete(ctx context.Context, key string, timeout time.Duration) (DeleteResult, error) {
	if timeout <= 0 {
		timeout = DefaultDeleteTimeout
	}
	var res DeleteResult
	err := d.conn.call(ctx, PathRDHT, "delete", []any{key, timeout.Milliseconds()}, &res)
	return res, err
}
