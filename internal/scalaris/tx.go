package scalaris

import (
	"context"
	"encoding/json"
	"fmt"
)

// TransactionSingleOp runs single read, write and test_and_set operations,
// each in its own transaction.
type TransactionSingleOp struct {
	conn *Conn
}

// NewTransactionSingleOp dials its own connection.
func NewTransactionSingleOp(cfg Config) (*TransactionSingleOp, error) {
	conn, err := Dial(cfg)
	if err != nil {
		return nil, err
	}
	return &TransactionSingleOp{conn: conn}, nil
}

// NewTransactionSingleOpWith uses an existing connection.
func NewTransactionSingleOpWith(conn *Conn) *TransactionSingleOp {
	return &TransactionSingleOp{conn: conn}
}

// Close closes the underlying connection.
func (op *TransactionSingleOp) Close() error { return op.conn.Close() }

// Read returns the value stored under key.
func (op *TransactionSingleOp) Read(ctx context.Context, key string) (any, error) {
	var reply statusReply
	if err := op.conn.call(ctx, PathTx, "read", []any{key}, &reply); err != nil {
		return nil, err
	}
	if err := reply.err(); err != nil {
		return nil, err
	}
	if reply.Value == nil {
		return nil, fmt.Errorf("%w: read reply without value", ErrUnknown)
	}
	return decodeValue(*reply.Value)
}

// Write stores value under key.
func (op *TransactionSingleOp) Write(ctx context.Context, key string, value any) error {
	ev, err := encodeValue(value)
	if err != nil {
		return err
	}
	var reply statusReply
	if err := op.conn.call(ctx, PathTx, "write", []any{key, ev}, &reply); err != nil {
		return err
	}
	return reply.err()
}

// TestAndSet replaces the value under key with newValue if it currently
// equals oldValue. A mismatch returns *KeyChangedError carrying the
// current value.
func (op *TransactionSingleOp) TestAndSet(ctx context.Context, key string, oldValue, newValue any) error {
	oldEV, err := encodeValue(oldValue)
	if err != nil {
		return err
	}
	newEV, err := encodeValue(newValue)
	if err != nil {
		return err
	}
	var reply statusReply
	if err := op.conn.call(ctx, PathTx, "test_and_set", []any{key, oldEV, newEV}, &reply); err != nil {
		return err
	}
	if reply.Status == "fail" && reply.Reason == "key_changed" {
		if reply.Value == nil {
			return fmt.Errorf("%w: key_changed without value", ErrUnknown)
		}
		current, err := decodeValue(*reply.Value)
		if err != nil {
			return err
		}
		return &KeyChangedError{Old: current}
	}
	return reply.err()
}

// Transaction accumulates reads and writes in a transaction log and
// commits them atomically.
type Transaction struct {
	conn *Conn
	tlog json.RawMessage
}

// NewTransaction dials its own connection.
func NewTransaction(cfg Config) (*Transaction, error) {
	conn, err := Dial(cfg)
	if err != nil {
		return nil, err
	}
	return &Transaction{conn: conn}, nil
}

// NewTransactionWith uses an existing connection.
func NewTransactionWith(conn *Conn) *Transaction {
	return &Transaction{conn: conn}
}

// Close closes the underlying connection.
func (tx *Transaction) Close() error { return tx.conn.Close() }

type reqListReply struct {
	TLog    json.RawMessage `json:"tlog"`
	Results []statusReply   `json:"results"`
}

func (tx *Transaction) reqList(ctx context.Context, reqs ...map[string]any) ([]statusReply, error) {
	list := make([]any, len(reqs))
	for i, r := range reqs {
		list[i] = r
	}
	params := []any{list}
	if tx.tlog != nil {
		params = []any{tx.tlog, list}
	}

	var reply reqListReply
	if err := tx.conn.call(ctx, PathTx, "req_list", params, &reply); err != nil {
		return nil, err
	}
	if len(reply.Results) != len(reqs) {
		return nil, fmt.Errorf("%w: req_list returned %d results for %d requests", ErrUnknown, len(reply.Results), len(reqs))
	}
	tx.tlog = reply.TLog
	return reply.Results, nil
}

// Read reads key within the transaction.
func (tx *Transaction) Read(ctx context.Context, key string) (any, error) {
	results, err := tx.reqList(ctx, map[string]any{"read": key})
	if err != nil {
		return nil, err
	}
	res := results[0]
	if err := res.err(); err != nil {
		return nil, err
	}
	if res.Value == nil {
		return nil, fmt.Errorf("%w: read result without value", ErrUnknown)
	}
	return decodeValue(*res.Value)
}

// Write records a write of value under key within the transaction.
func (tx *Transaction) Write(ctx context.Context, key string, value any) error {
	ev, err := encodeValue(value)
	if err != nil {
		return err
	}
	results, err := tx.reqList(ctx, map[string]any{"write": map[string]any{key: ev}})
	if err != nil {
		return err
	}
	return results[0].err()
}

// Commit commits the transaction log. On success the transaction starts over.
func (tx *Transaction) Commit(ctx context.Context) error {
	results, err := tx.reqList(ctx, map[string]any{"commit": ""})
	if err != nil {
		return err
	}
	res := results[0]
	if res.Status == "fail" && res.Reason == "abort" {
		tx.tlog = nil
		return &AbortError{Keys: res.Keys}
	}
	if err := res.err(); err != nil {
		return err
	}
	tx.tlog = nil
	return nil
}

// Abort drops the transaction log; nothing is sent to the node.
func (tx *Transaction) Abort() {
	tx.tlog = nil
}
