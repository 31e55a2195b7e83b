// Package scalaristest provides an in-memory stand-in for a Scalaris node's
// JSON-RPC APIs, for tests of code that talks to one.
package scalaristest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"time"
)

// Replicas is the replication degree reported by rdht delete.
const Replicas = 4

type value struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

func (v value) decoded() any {
	var out any
	_ = json.Unmarshal(v.Value, &out)
	return out
}

func (v value) equal(o value) bool {
	return v.Type == o.Type && reflect.DeepEqual(v.decoded(), o.decoded())
}

// Server is a fake node. Start one with NewServer and stop it with Close.
type Server struct {
	*httptest.Server

	mu     sync.Mutex
	data   map[string]value
	subs   map[string][]string
	calls  []string
	client *http.Client
}

// NewServer starts a fake node on a loopback port.
func NewServer() *Server {
	s := &Server{
		data:   make(map[string]value),
		subs:   make(map[string][]string),
		client: &http.Client{Timeout: 5 * time.Second},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tx.yaws", s.rpc(s.tx))
	mux.HandleFunc("/api/rdht.yaws", s.rpc(s.rdht))
	mux.HandleFunc("/api/pubsub.yaws", s.rpc(s.pubsub))
	s.Server = httptest.NewServer(mux)
	return s
}

// Calls returns the methods invoked so far, in order.
func (s *Server) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.calls))
	copy(out, s.calls)
	return out
}

// Keys returns the number of stored keys.
func (s *Server) Keys() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

type request struct {
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
	ID     uint64            `json:"id"`
}

type handler func(method string, params []json.RawMessage) (any, bool)

func (s *Server) rpc(h handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		s.calls = append(s.calls, req.Method)
		s.mu.Unlock()

		result, ok := h(req.Method, req.Params)
		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		if ok {
			resp["result"] = result
		} else {
			resp["error"] = map[string]any{"code": -32601, "message": "method not found: " + req.Method}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func ok() map[string]any { return map[string]any{"status": "ok"} }

func fail(reason string) map[string]any {
	return map[string]any{"status": "fail", "reason": reason}
}

func str(raw json.RawMessage) string {
	var s string
	_ = json.Unmarshal(raw, &s)
	return s
}

func val(raw json.RawMessage) value {
	var v value
	_ = json.Unmarshal(raw, &v)
	return v
}

func (s *Server) tx(method string, params []json.RawMessage) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch method {
	case "nop":
		return "ok", true
	case "read":
		v, found := s.data[str(params[0])]
		if !found {
			return fail("not_found"), true
		}
		return map[string]any{"status": "ok", "value": v}, true
	case "write":
		s.data[str(params[0])] = val(params[1])
		return ok(), true
	case "test_and_set":
		key := str(params[0])
		cur, found := s.data[key]
		if !found {
			return fail("not_found"), true
		}
		if !cur.equal(val(params[1])) {
			return map[string]any{"status": "fail", "reason": "key_changed", "value": cur}, true
		}
		s.data[key] = val(params[2])
		return ok(), true
	case "req_list":
		return s.reqList(params), true
	}
	return nil, false
}

// tlog is the fake transaction log: writes not yet committed.
type tlog struct {
	Writes map[string]value `json:"writes"`
}

func (s *Server) reqList(params []json.RawMessage) map[string]any {
	log := tlog{Writes: map[string]value{}}
	reqsRaw := params[0]
	if len(params) == 2 {
		_ = json.Unmarshal(params[0], &log)
		if log.Writes == nil {
			log.Writes = map[string]value{}
		}
		reqsRaw = params[1]
	}
	var reqs []map[string]json.RawMessage
	_ = json.Unmarshal(reqsRaw, &reqs)

	results := make([]any, 0, len(reqs))
	for _, r := range reqs {
		switch {
		case r["read"] != nil:
			key := str(r["read"])
			if v, found := log.Writes[key]; found {
				results = append(results, map[string]any{"status": "ok", "value": v})
			} else if v, found := s.data[key]; found {
				results = append(results, map[string]any{"status": "ok", "value": v})
			} else {
				results = append(results, fail("not_found"))
			}
		case r["write"] != nil:
			var kv map[string]value
			_ = json.Unmarshal(r["write"], &kv)
			for k, v := range kv {
				log.Writes[k] = v
			}
			results = append(results, ok())
		case r["commit"] != nil:
			for k, v := range log.Writes {
				s.data[k] = v
			}
			log.Writes = map[string]value{}
			results = append(results, ok())
		default:
			results = append(results, fail("unknown_request"))
		}
	}
	return map[string]any{"tlog": log, "results": results}
}

func (s *Server) rdht(method string, params []json.RawMessage) (any, bool) {
	if method != "delete" {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := str(params[0])
	results := make([]string, Replicas)
	okCount := 0
	_, found := s.data[key]
	for i := range results {
		if found {
			results[i] = "ok"
			okCount++
		} else {
			results[i] = "undef"
		}
	}
	delete(s.data, key)
	return map[string]any{"ok": okCount, "results": results}, true
}

func (s *Server) pubsub(method string, params []json.RawMessage) (any, bool) {
	switch method {
	case "publish":
		topic, content := str(params[0]), str(params[1])
		s.mu.Lock()
		subs := append([]string(nil), s.subs[topic]...)
		s.mu.Unlock()
		for _, url := range subs {
			s.notify(url, topic, content)
		}
		return ok(), true
	case "subscribe":
		topic, url := str(params[0]), str(params[1])
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, u := range s.subs[topic] {
			if u == url {
				return ok(), true
			}
		}
		s.subs[topic] = append(s.subs[topic], url)
		return ok(), true
	case "unsubscribe":
		topic, url := str(params[0]), str(params[1])
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, u := range s.subs[topic] {
			if u == url {
				s.subs[topic] = append(s.subs[topic][:i], s.subs[topic][i+1:]...)
				return ok(), true
			}
		}
		return fail("not_found"), true
	case "get_subscribers":
		s.mu.Lock()
		defer s.mu.Unlock()
		subs := s.subs[str(params[0])]
		if subs == nil {
			subs = []string{}
		}
		return subs, true
	}
	return nil, false
}

// notify delivers a publication the way a node does: a JSON-RPC "notify"
// call to the subscriber URL. Delivery errors are ignored.
func (s *Server) notify(url, topic, content string) {
	body, _ := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"method":  "notify",
		"params":  []string{topic, content},
		"id":      0,
	})
	resp, err := s.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return
	}
	resp.Body.Close()
}
