// Package subscriber runs a short-lived HTTP endpoint that receives pub/sub
// notifications pushed by a Scalaris node.
package subscriber

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// Notification is one delivered publication.
type Notification struct {
	Topic   string
	Content string
}

// Config configures the endpoint
type Config struct {
	// ListenAddr is the local address to bind, e.g. "0.0.0.0:0".
	ListenAddr string
	// AdvertiseHost replaces the listener host in URL(), for nodes that
	// reach this process through a different name. Empty keeps it.
	AdvertiseHost string
	Logger        zerolog.Logger
}

// Server is the notification endpoint.
type Server struct {
	echo     *echo.Echo
	http     *http.Server
	listener net.Listener
	url      string
	logger   zerolog.Logger
	notes    chan Notification
}

type rpcRequest struct {
	Method string   `json:"method"`
	Params []string `json:"params"`
	ID     any      `json:"id"`
}

// Start binds the listener and serves in the background.
func Start(cfg Config) (*Server, error) {
	addr := cfg.ListenAddr
	if addr == "" {
		addr = "127.0.0.1:0"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}

	host, port, err := net.SplitHostPort(ln.Addr().String())
	if err != nil {
		ln.Close()
		return nil, err
	}
	if cfg.AdvertiseHost != "" {
		host = cfg.AdvertiseHost
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:     e,
		listener: ln,
		url:      fmt.Sprintf("http://%s/notify", net.JoinHostPort(host, port)),
		logger:   cfg.Logger,
		notes:    make(chan Notification, 64),
	}
	e.POST("/notify", s.handleNotify)

	s.http = &http.Server{Handler: e, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Warn().Err(err).Msg("subscriber endpoint stopped")
		}
	}()
	return s, nil
}

// URL is the address to subscribe with.
func (s *Server) URL() string { return s.url }

func (s *Server) handleNotify(c echo.Context) error {
	var req rpcRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json-rpc request")
	}
	if req.Method != "notify" || len(req.Params) != 2 {
		return echo.NewHTTPError(http.StatusBadRequest, "expected notify(topic, content)")
	}

	n := Notification{Topic: req.Params[0], Content: req.Params[1]}
	s.logger.Debug().Str("topic", n.Topic).Msg("notification received")
	select {
	case s.notes <- n:
	default:
		s.logger.Warn().Str("topic", n.Topic).Msg("notification buffer full, dropping")
	}
	return c.JSON(http.StatusOK, map[string]any{"jsonrpc": "2.0", "result": "ok", "id": req.ID})
}

// Wait blocks until a notification for topic arrives or ctx ends.
// Notifications for other topics are discarded.
func (s *Server) Wait(ctx context.Context, topic string) (Notification, error) {
	for {
		select {
		case n := <-s.notes:
			if n.Topic == topic {
				return n, nil
			}
		case <-ctx.Done():
			return Notification{}, fmt.Errorf("waiting for notification on %s: %w", topic, ctx.Err())
		}
	}
}

// Close shuts the endpoint down.
func (s *Server) Close(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
