package suites

import (
	"github.com/stretchr/testify/assert"

	"sctest/internal/scalaris"
	"sctest/internal/suite"
)

func replicatedDHTSuite(cfg Config) *suite.Suite {
	newDHT := func(t *suite.T) (*scalaris.ReplicatedDHT, *scalaris.TransactionSingleOp) {
		conn := dial(t, cfg)
		return scalaris.NewReplicatedDHTWith(conn), scalaris.NewTransactionSingleOpWith(conn)
	}

	return &suite.Suite{
		Name: ReplicatedDHTID,
		Tests: []suite.Test{
			{Name: "testReplicatedDHT1", Run: func(t *suite.T) {
				dht, err := scalaris.NewReplicatedDHT(cfg.Scalaris)
				t.Must(err)
				t.Must(dht.Close())
			}},
			{Name: "testDelete_NotConnected", Run: func(t *suite.T) {
				dht := scalaris.NewReplicatedDHTWith(closedConn(t, cfg))
				_, err := dht.Delete(t.Context(), key(cfg, "_Delete_NotConnected"), 0)
				assert.ErrorIs(t, err, scalaris.ErrConnection)
			}},
			{Name: "testDelete_notExistingKey", Run: func(t *suite.T) {
				dht, _ := newDHT(t)
				res, err := dht.Delete(t.Context(), key(cfg, "_Delete_NotExistingKey"), 0)
				t.Must(err)
				assert.Equal(t, 0, res.OK)
				assert.Equal(t, 0, res.LocksSet())
				assert.Equal(t, len(res.Results), res.Undef(), "results: %v", res.Results)
			}},
			{Name: "testDelete1", Run: func(t *suite.T) {
				ctx := t.Context()
				dht, op := newDHT(t)
				for i, d := range testData {
					t.Must(op.Write(ctx, key(cfg, "_Delete1_", i), d))
				}
				for i := range testData {
					res, err := dht.Delete(ctx, key(cfg, "_Delete1_", i), 0)
					t.Must(err)
					assert.NotEmpty(t, res.Results)
					assert.Equal(t, len(res.Results), res.OK, "results: %v", res.Results)
				}
				for i := range testData {
					_, err := op.Read(ctx, key(cfg, "_Delete1_", i))
					assert.ErrorIs(t, err, scalaris.ErrNotFound)
				}
			}},
			{Name: "testDelete2", Run: func(t *suite.T) {
				ctx := t.Context()
				dht, op := newDHT(t)
				k := key(cfg, "_Delete2")
				t.Must(op.Write(ctx, k, testData[0]))

				first, err := dht.Delete(ctx, k, 0)
				t.Must(err)
				assert.Equal(t, len(first.Results), first.OK)

				second, err := dht.Delete(ctx, k, 0)
				t.Must(err)
				assert.Equal(t, 0, second.OK)
			}},
		},
	}
}
