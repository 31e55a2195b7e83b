package scalaris

import (
	"context"
	"fmt"
)

// PubSub publishes to topics and manages subscriber URLs. Subscribers are
// HTTP endpoints the node notifies with a JSON-RPC "notify" call.
type PubSub struct {
	conn *Conn
}

// NewPubSub dials its own connection.
func NewPubSub(cfg Config) (*PubSub, error) {
	conn, err := Dial(cfg)
	if err != nil {
		return nil, err
	}
	return &PubSub{conn: conn}, nil
}

// NewPubSubWith uses an existing connection.
func NewPubSubWith(conn *Conn) *PubSub {
	return &PubSub{conn: conn}
}

// Close closes the underlying connection.
func (p *PubSub) Close() error { return p.conn.Close() }

// Publish sends content to every subscriber of topic.
func (p *PubSub) Publish(ctx context.Context, topic, content string) error {
	var reply statusReply
	if err := p.conn.call(ctx, PathPubSub, "publish", []any{topic, content}, &reply); err != nil {
		return err
	}
	return reply.err()
}

// Subscribe registers url as a subscriber of topic.
func (p *PubSub) Subscribe(ctx context.Context, topic, url string) error {
	var reply statusReply
	if err := p.conn.call(ctx, PathPubSub, "subscribe", []any{topic, url}, &reply); err != nil {
		return err
	}
	return reply.err()
}

// Unsubscribe removes url from topic. It returns ErrNotFound when url was
// not subscribed.
func (p *PubSub) Unsubscribe(ctx context.Context, topic, url string) error {
	var reply statusReply
	if err := p.conn.call(ctx, PathPubSub, "unsubscribe", []any{topic, url}, &reply); err != nil {
		return err
	}
	return reply.err()
}

// GetSubscribers lists the subscriber URLs of topic.
func (p *PubSub) GetSubscribers(ctx context.Context, topic string) ([]string, error) {
	var subs []string
	if err := p.conn.call(ctx, PathPubSub, "get_subscribers", []any{topic}, &subs); err != nil {
		return nil, fmt.Errorf("get_subscribers %s: %w", topic, err)
	}
	return subs, nil
}
