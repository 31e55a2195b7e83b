package suites

import (
	"errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sctest/internal/scalaris"
	"sctest/internal/suite"
)

func transactionSingleOpSuite(cfg Config) *suite.Suite {
	newOp := func(t *suite.T) *scalaris.TransactionSingleOp {
		return scalaris.NewTransactionSingleOpWith(dial(t, cfg))
	}
	closedOp := func(t *suite.T) *scalaris.TransactionSingleOp {
		return scalaris.NewTransactionSingleOpWith(closedConn(t, cfg))
	}

	return &suite.Suite{
		Name: TransactionSingleOpID,
		Tests: []suite.Test{
			{Name: "testTransactionSingleOp1", Run: func(t *suite.T) {
				op, err := scalaris.NewTransactionSingleOp(cfg.Scalaris)
				t.Must(err)
				t.Must(op.Close())
			}},
			{Name: "testTransactionSingleOp2", Run: func(t *suite.T) {
				conn, err := scalaris.Dial(cfg.Scalaris)
				t.Must(err)
				t.Must(conn.Nop(t.Context()))
				op := scalaris.NewTransactionSingleOpWith(conn)
				t.Must(op.Close())
			}},
			{Name: "testRead_NotFound", Run: func(t *suite.T) {
				_, err := newOp(t).Read(t.Context(), key(cfg, "_Read_NotFound"))
				assert.ErrorIs(t, err, scalaris.ErrNotFound)
			}},
			{Name: "testRead_NotConnected", Run: func(t *suite.T) {
				_, err := closedOp(t).Read(t.Context(), key(cfg, "_Read_NotConnected"))
				assert.ErrorIs(t, err, scalaris.ErrConnection)
			}},
			{Name: "testWriteList_NotConnected", Run: func(t *suite.T) {
				err := closedOp(t).Write(t.Context(), key(cfg, "_WriteList_NotConnected"), pair(testData[0], testData[1]))
				assert.ErrorIs(t, err, scalaris.ErrConnection)
			}},
			{Name: "testWriteList1", Run: func(t *suite.T) {
				op := newOp(t)
				ctx := t.Context()
				for i := 0; i < len(testData)-1; i += 2 {
					t.Must(op.Write(ctx, key(cfg, "_WriteList1_", i), pair(testData[i], testData[i+1])))
				}
				for i := 0; i < len(testData)-1; i += 2 {
					actual, err := op.Read(ctx, key(cfg, "_WriteList1_", i))
					t.Must(err)
					assert.Equal(t, scalaris.Normalize(pair(testData[i], testData[i+1])), actual)
				}
			}},
			{Name: "testWriteList2", Run: func(t *suite.T) {
				op := newOp(t)
				ctx := t.Context()
				k := key(cfg, "_WriteList2")
				var last []any
				for i := 0; i < len(testData)-1; i += 2 {
					last = pair(testData[i], testData[i+1])
					t.Must(op.Write(ctx, k, last))
				}
				actual, err := op.Read(ctx, k)
				t.Must(err)
				assert.Equal(t, scalaris.Normalize(last), actual)
			}},
			{Name: "testWrite_NotConnected", Run: func(t *suite.T) {
				err := closedOp(t).Write(t.Context(), key(cfg, "_Write_NotConnected"), testData[0])
				assert.ErrorIs(t, err, scalaris.ErrConnection)
			}},
			{Name: "testWrite1", Run: func(t *suite.T) {
				op := newOp(t)
				ctx := t.Context()
				for i, d := range testData {
					t.Must(op.Write(ctx, key(cfg, "_Write1_", i), d))
				}
				for i, d := range testData {
					actual, err := op.Read(ctx, key(cfg, "_Write1_", i))
					t.Must(err)
					assert.Equal(t, d, actual)
				}
			}},
			{Name: "testWrite2", Run: func(t *suite.T) {
				op := newOp(t)
				ctx := t.Context()
				k := key(cfg, "_Write2")
				for _, d := range testData {
					t.Must(op.Write(ctx, k, d))
				}
				actual, err := op.Read(ctx, k)
				t.Must(err)
				assert.Equal(t, testData[len(testData)-1], actual)
			}},
			{Name: "testTestAndSetList_NotConnected", Run: func(t *suite.T) {
				err := closedOp(t).TestAndSet(t.Context(), key(cfg, "_TestAndSetList_NotConnected"), "ok", pair(testData[0], testData[1]))
				assert.ErrorIs(t, err, scalaris.ErrConnection)
			}},
			{Name: "testTestAndSetList_NotFound", Run: func(t *suite.T) {
				err := newOp(t).TestAndSet(t.Context(), key(cfg, "_TestAndSetList_NotFound"), "ok", pair(testData[0], testData[1]))
				assert.ErrorIs(t, err, scalaris.ErrNotFound)
			}},
			{Name: "testTestAndSetList1", Run: func(t *suite.T) {
				op := newOp(t)
				ctx := t.Context()
				for i := 0; i < len(testData)-1; i += 2 {
					t.Must(op.Write(ctx, key(cfg, "_TestAndSetList1", i), pair(testData[i], testData[i+1])))
				}
				for i := 0; i < len(testData)-1; i += 2 {
					t.Must(op.TestAndSet(ctx, key(cfg, "_TestAndSetList1", i),
						pair(testData[i], testData[i+1]), pair(testData[i+1], testData[i])))
				}
				for i := 0; i < len(testData)-1; i += 2 {
					actual, err := op.Read(ctx, key(cfg, "_TestAndSetList1", i))
					t.Must(err)
					assert.Equal(t, scalaris.Normalize(pair(testData[i+1], testData[i])), actual)
				}
			}},
			{Name: "testTestAndSetList2", Run: func(t *suite.T) {
				op := newOp(t)
				ctx := t.Context()
				for i := 0; i < len(testData)-1; i += 2 {
					t.Must(op.Write(ctx, key(cfg, "_TestAndSetList2", i), pair(testData[i], testData[i+1])))
				}
				for i := 0; i < len(testData)-1; i += 2 {
					err := op.TestAndSet(ctx, key(cfg, "_TestAndSetList2", i),
						pair(testData[i], testData[i]), "fail")
					requireKeyChanged(t, err, pair(testData[i], testData[i+1]))
				}
				for i := 0; i < len(testData)-1; i += 2 {
					actual, err := op.Read(ctx, key(cfg, "_TestAndSetList2", i))
					t.Must(err)
					assert.Equal(t, scalaris.Normalize(pair(testData[i], testData[i+1])), actual)
				}
			}},
			{Name: "testTestAndSet_NotConnected", Run: func(t *suite.T) {
				err := closedOp(t).TestAndSet(t.Context(), key(cfg, "_TestAndSet_NotConnected"), testData[0], testData[1])
				assert.ErrorIs(t, err, scalaris.ErrConnection)
			}},
			{Name: "testTestAndSet_NotFound", Run: func(t *suite.T) {
				err := newOp(t).TestAndSet(t.Context(), key(cfg, "_TestAndSet_NotFound"), testData[0], testData[1])
				assert.ErrorIs(t, err, scalaris.ErrNotFound)
			}},
			{Name: "testTestAndSet1", Run: func(t *suite.T) {
				op := newOp(t)
				ctx := t.Context()
				for i := 0; i < len(testData)-1; i += 2 {
					t.Must(op.Write(ctx, key(cfg, "_TestAndSet1", i), testData[i]))
				}
				for i := 0; i < len(testData)-1; i += 2 {
					t.Must(op.TestAndSet(ctx, key(cfg, "_TestAndSet1", i), testData[i], testData[i+1]))
				}
				for i := 0; i < len(testData)-1; i += 2 {
					actual, err := op.Read(ctx, key(cfg, "_TestAndSet1", i))
					t.Must(err)
					assert.Equal(t, testData[i+1], actual)
				}
			}},
			{Name: "testTestAndSet2", Run: func(t *suite.T) {
				op := newOp(t)
				ctx := t.Context()
				for i := 0; i < len(testData)-1; i += 2 {
					t.Must(op.Write(ctx, key(cfg, "_TestAndSet2", i), testData[i]))
				}
				for i := 0; i < len(testData)-1; i += 2 {
					err := op.TestAndSet(ctx, key(cfg, "_TestAndSet2", i), testData[i+1], "fail")
					requireKeyChanged(t, err, testData[i])
				}
				for i := 0; i < len(testData)-1; i += 2 {
					actual, err := op.Read(ctx, key(cfg, "_TestAndSet2", i))
					t.Must(err)
					assert.Equal(t, testData[i], actual)
				}
			}},
		},
	}
}

// requireKeyChanged asserts err is a key-changed error carrying old.
func requireKeyChanged(t *suite.T, err error, old any) {
	var kc *scalaris.KeyChangedError
	require.True(t, errors.As(err, &kc), "expected key changed error, got %v", err)
	assert.Equal(t, scalaris.Normalize(old), kc.Old)
}
