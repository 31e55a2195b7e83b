package suites

import (
	"github.com/stretchr/testify/assert"

	"sctest/internal/scalaris"
	"sctest/internal/suite"
)

func transactionSuite(cfg Config) *suite.Suite {
	newTx := func(t *suite.T) *scalaris.Transaction {
		return scalaris.NewTransactionWith(dial(t, cfg))
	}
	closedTx := func(t *suite.T) *scalaris.Transaction {
		return scalaris.NewTransactionWith(closedConn(t, cfg))
	}

	return &suite.Suite{
		Name: TransactionID,
		Tests: []suite.Test{
			{Name: "testTransaction1", Run: func(t *suite.T) {
				tx, err := scalaris.NewTransaction(cfg.Scalaris)
				t.Must(err)
				t.Must(tx.Close())
			}},
			{Name: "testCommit_Empty", Run: func(t *suite.T) {
				t.Must(newTx(t).Commit(t.Context()))
			}},
			{Name: "testCommit_NotConnected", Run: func(t *suite.T) {
				assert.ErrorIs(t, closedTx(t).Commit(t.Context()), scalaris.ErrConnection)
			}},
			{Name: "testRead_NotFound", Run: func(t *suite.T) {
				_, err := newTx(t).Read(t.Context(), key(cfg, "_TxRead_NotFound"))
				assert.ErrorIs(t, err, scalaris.ErrNotFound)
			}},
			{Name: "testRead_NotConnected", Run: func(t *suite.T) {
				_, err := closedTx(t).Read(t.Context(), key(cfg, "_TxRead_NotConnected"))
				assert.ErrorIs(t, err, scalaris.ErrConnection)
			}},
			{Name: "testWrite_NotConnected", Run: func(t *suite.T) {
				err := closedTx(t).Write(t.Context(), key(cfg, "_TxWrite_NotConnected"), testData[0])
				assert.ErrorIs(t, err, scalaris.ErrConnection)
			}},
			{Name: "testWrite", Run: func(t *suite.T) {
				ctx := t.Context()
				tx := newTx(t)
				for i, d := range testData {
					t.Must(tx.Write(ctx, key(cfg, "_TxWrite_", i), d))
				}
				t.Must(tx.Commit(ctx))

				check := newTx(t)
				for i, d := range testData {
					actual, err := check.Read(ctx, key(cfg, "_TxWrite_", i))
					t.Must(err)
					assert.Equal(t, d, actual)
				}
			}},
			{Name: "testWriteList", Run: func(t *suite.T) {
				ctx := t.Context()
				tx := newTx(t)
				for i := 0; i < len(testData)-1; i += 2 {
					t.Must(tx.Write(ctx, key(cfg, "_TxWriteList_", i), pair(testData[i], testData[i+1])))
				}
				t.Must(tx.Commit(ctx))

				check := newTx(t)
				for i := 0; i < len(testData)-1; i += 2 {
					actual, err := check.Read(ctx, key(cfg, "_TxWriteList_", i))
					t.Must(err)
					assert.Equal(t, scalaris.Normalize(pair(testData[i], testData[i+1])), actual)
				}
			}},
			{Name: "testWrite2", Run: func(t *suite.T) {
				ctx := t.Context()
				k := key(cfg, "_TxWrite2")
				tx := newTx(t)
				for _, d := range testData {
					t.Must(tx.Write(ctx, k, d))
				}
				t.Must(tx.Commit(ctx))

				actual, err := newTx(t).Read(ctx, k)
				t.Must(err)
				assert.Equal(t, testData[len(testData)-1], actual)
			}},
			{Name: "testReadOwnWrite", Run: func(t *suite.T) {
				ctx := t.Context()
				k := key(cfg, "_TxReadOwnWrite")
				tx := newTx(t)
				t.Must(tx.Write(ctx, k, testData[0]))
				actual, err := tx.Read(ctx, k)
				t.Must(err)
				assert.Equal(t, testData[0], actual)
				tx.Abort()
			}},
			{Name: "testAbort", Run: func(t *suite.T) {
				ctx := t.Context()
				k := key(cfg, "_TxAbort")
				tx := newTx(t)
				t.Must(tx.Write(ctx, k, testData[0]))
				tx.Abort()
				t.Must(tx.Commit(ctx))

				_, err := newTx(t).Read(ctx, k)
				assert.ErrorIs(t, err, scalaris.ErrNotFound)
			}},
		},
	}
}
