package suites

import (
	"context"
	"fmt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sctest/internal/scalaris"
	"sctest/internal/subscriber"
	"sctest/internal/suite"
)

func subscriberURL(d string) string {
	return fmt.Sprintf("http://%s.invalid/", d)
}

func pubSubSuite(cfg Config) *suite.Suite {
	newPS := func(t *suite.T) *scalaris.PubSub {
		return scalaris.NewPubSubWith(dial(t, cfg))
	}
	closedPS := func(t *suite.T) *scalaris.PubSub {
		return scalaris.NewPubSubWith(closedConn(t, cfg))
	}

	return &suite.Suite{
		Name: PubSubID,
		Tests: []suite.Test{
			{Name: "testPubSub1", Run: func(t *suite.T) {
				ps, err := scalaris.NewPubSub(cfg.Scalaris)
				t.Must(err)
				t.Must(ps.Close())
			}},
			{Name: "testPublish_NotConnected", Run: func(t *suite.T) {
				err := closedPS(t).Publish(t.Context(), key(cfg, "_Publish_NotConnected"), testData[0])
				assert.ErrorIs(t, err, scalaris.ErrConnection)
			}},
			{Name: "testPublish1", Run: func(t *suite.T) {
				ps := newPS(t)
				for i, d := range testData {
					t.Must(ps.Publish(t.Context(), key(cfg, "_Publish1_", i), d))
				}
			}},
			{Name: "testPublish2", Run: func(t *suite.T) {
				ps := newPS(t)
				topic := key(cfg, "_Publish2")
				for _, d := range testData {
					t.Must(ps.Publish(t.Context(), topic, d))
				}
			}},
			{Name: "testGetSubscribers_NotExistingTopic", Run: func(t *suite.T) {
				subs, err := newPS(t).GetSubscribers(t.Context(), key(cfg, "_GetSubscribers_NotExistingTopic"))
				t.Must(err)
				assert.Empty(t, subs)
			}},
			{Name: "testSubscribe_NotConnected", Run: func(t *suite.T) {
				err := closedPS(t).Subscribe(t.Context(), key(cfg, "_Subscribe_NotConnected"), subscriberURL(testData[0]))
				assert.ErrorIs(t, err, scalaris.ErrConnection)
			}},
			{Name: "testSubscribe1", Run: func(t *suite.T) {
				ps := newPS(t)
				ctx := t.Context()
				for i, d := range testData {
					t.Must(ps.Subscribe(ctx, key(cfg, "_Subscribe1_", i), subscriberURL(d)))
				}
				for i, d := range testData {
					subs, err := ps.GetSubscribers(ctx, key(cfg, "_Subscribe1_", i))
					t.Must(err)
					assert.Equal(t, []string{subscriberURL(d)}, subs)
				}
			}},
			{Name: "testSubscribe2", Run: func(t *suite.T) {
				ps := newPS(t)
				ctx := t.Context()
				topic := key(cfg, "_Subscribe2")
				want := make([]string, 0, len(testData))
				for _, d := range testData {
					t.Must(ps.Subscribe(ctx, topic, subscriberURL(d)))
					want = append(want, subscriberURL(d))
				}
				subs, err := ps.GetSubscribers(ctx, topic)
				t.Must(err)
				assert.ElementsMatch(t, want, subs)
			}},
			{Name: "testUnsubscribe_NotConnected", Run: func(t *suite.T) {
				err := closedPS(t).Unsubscribe(t.Context(), key(cfg, "_Unsubscribe_NotConnected"), subscriberURL(testData[0]))
				assert.ErrorIs(t, err, scalaris.ErrConnection)
			}},
			{Name: "testUnsubscribe_NotExistingTopic", Run: func(t *suite.T) {
				err := newPS(t).Unsubscribe(t.Context(), key(cfg, "_Unsubscribe_NotExistingTopic"), subscriberURL(testData[0]))
				assert.ErrorIs(t, err, scalaris.ErrNotFound)
			}},
			{Name: "testUnsubscribe_NotExistingUrl", Run: func(t *suite.T) {
				ps := newPS(t)
				topic := key(cfg, "_Unsubscribe_NotExistingUrl")
				t.Must(ps.Subscribe(t.Context(), topic, subscriberURL(testData[0])))
				err := ps.Unsubscribe(t.Context(), topic, subscriberURL(testData[1]))
				assert.ErrorIs(t, err, scalaris.ErrNotFound)
			}},
			{Name: "testUnsubscribe1", Run: func(t *suite.T) {
				ps := newPS(t)
				ctx := t.Context()
				topic := key(cfg, "_Unsubscribe1")
				for _, d := range testData {
					t.Must(ps.Subscribe(ctx, topic, subscriberURL(d)))
				}
				// drop every other subscriber
				var want []string
				for i, d := range testData {
					if i%2 == 0 {
						t.Must(ps.Unsubscribe(ctx, topic, subscriberURL(d)))
					} else {
						want = append(want, subscriberURL(d))
					}
				}
				subs, err := ps.GetSubscribers(ctx, topic)
				t.Must(err)
				assert.ElementsMatch(t, want, subs)
			}},
			{Name: "testSubscription1", Run: func(t *suite.T) {
				if cfg.CallbackListen == "" {
					t.Skipf("no callback address configured")
				}
				srv, err := subscriber.Start(subscriber.Config{
					ListenAddr:    cfg.CallbackListen,
					AdvertiseHost: cfg.CallbackHost,
					Logger:        cfg.Logger,
				})
				t.Must(err)
				t.Cleanup(func() { srv.Close(context.Background()) })

				ps := newPS(t)
				topic := key(cfg, "_Subscription1")
				t.Must(ps.Subscribe(t.Context(), topic, srv.URL()))
				t.Must(ps.Publish(t.Context(), topic, testData[0]))

				ctx, cancel := context.WithTimeout(t.Context(), cfg.NotifyTimeout)
				defer cancel()
				n, err := srv.Wait(ctx, topic)
				require.NoError(t, err, "notification not delivered")
				assert.Equal(t, testData[0], n.Content)
			}},
		},
	}
}
