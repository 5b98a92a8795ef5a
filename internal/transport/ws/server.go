// Package ws serves the world to WebSocket clients along with read-only
// JSON endpoints for the leaderboard and stage status.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"chronorogue/internal/leaderboard"
	"chronorogue/internal/mud"
	"chronorogue/internal/protocol"
	"chronorogue/internal/stage"
)

const (
	writeTimeout     = 5 * time.Second
	readTimeout      = 60 * time.Second
	handshakeTimeout = 5 * time.Second
	defaultTop       = 10
	maxTop           = 100
)

// Board is the leaderboard query the HTTP endpoint needs.
type Board interface {
	Top(ctx context.Context, n int) ([]leaderboard.Run, error)
}

type Server struct {
	world     *mud.Server
	board     Board
	log       *slog.Logger
	validator *protocol.Validator

	actRate  rate.Limit
	actBurst int

	upgrader websocket.Upgrader

	mu     sync.Mutex
	conns  map[*websocket.Conn]struct{}
	closed bool
	active sync.WaitGroup
}

// NewServer wires the transport to a world. board may be nil. actsPerSecond
// bounds how fast one connection may submit actions.
func NewServer(w *mud.Server, board Board, logger *slog.Logger, actsPerSecond float64) (*Server, error) {
	v, err := protocol.NewValidator()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	burst := int(actsPerSecond)
	if burst < 1 {
		burst = 1
	}
	return &Server{
		world:     w,
		board:     board,
		log:       logger,
		validator: v,
		actRate:   rate.Limit(actsPerSecond),
		actBurst:  burst,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]struct{}),
	}, nil
}

// Routes mounts /ws, /leaderboard and /status.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.Handler())
	mux.HandleFunc("/leaderboard", s.handleLeaderboard)
	mux.HandleFunc("/status", s.handleStatus)
	return mux
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		if !s.track(conn) {
			return
		}
		defer s.untrack(conn)

		sess := s.handshake(conn)
		if sess == nil {
			return
		}
		defer func() {
			if err := s.world.Disconnect(sess); err != nil {
				s.log.Warn("ws: disconnect not queued", "player", sess.PlayerID, "error", err)
			}
		}()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		local := make(chan any, 8)

		// Writer goroutine: the only one writing to conn after the handshake.
		go func() {
			for {
				var frame any
				select {
				case <-ctx.Done():
					return
				case frame = <-local:
				case u := <-sess.Updates:
					frame = protocol.FromUpdate(u)
					if u.Kind == mud.UpdateError && errors.Is(u.Err, stage.ErrNoTracker) {
						s.resync(sess)
					}
				}
				if err := writeJSON(conn, frame); err != nil {
					cancel()
					return
				}
			}
		}()

		limiter := rate.NewLimiter(s.actRate, s.actBurst)
		for {
			_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				cancel()
				return
			}
			if reply := s.handleFrame(sess, limiter, msg); reply != nil {
				select {
				case local <- reply:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

// track registers a live connection. It reports false once Close has run.
func (s *Server) track(conn *websocket.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.conns[conn] = struct{}{}
	s.active.Add(1)
	return true
}

func (s *Server) untrack(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
	s.active.Done()
}

// Close drops every live WebSocket connection and waits for their handlers
// to queue their departures. http.Server.Shutdown does not close hijacked
// connections, so call this before stopping the world.
func (s *Server) Close() {
	s.mu.Lock()
	s.closed = true
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.mu.Unlock()
	s.active.Wait()
}

// handleFrame applies one inbound frame and returns an immediate reply, if
// any. Results arrive asynchronously through the session's updates.
func (s *Server) handleFrame(sess *mud.Session, limiter *rate.Limiter, msg []byte) any {
	base, err := s.validator.Validate(msg)
	if err != nil {
		return protocol.NewError(protocol.ErrProtoBadRequest, err.Error())
	}
	switch base.Type {
	case protocol.TypeAct:
		if !limiter.Allow() {
			return protocol.NewError(protocol.ErrRateLimit, "too many actions")
		}
		var m protocol.ActMsg
		if err := json.Unmarshal(msg, &m); err != nil {
			return protocol.NewError(protocol.ErrProtoBadRequest, err.Error())
		}
		act, senses, err := m.Decode()
		if err != nil {
			return protocol.NewError(protocol.ErrProtoBadRequest, err.Error())
		}
		if err := s.world.Act(sess, act, senses); err != nil {
			return protocol.NewError(protocol.CodeFor(err), err.Error())
		}
	case protocol.TypeJoin:
		if err := s.world.Join(sess); err != nil {
			return protocol.NewError(protocol.CodeFor(err), err.Error())
		}
	default:
		return protocol.NewError(protocol.ErrProtoBadRequest, "unexpected "+base.Type)
	}
	return nil
}

// resync rejoins an avatar the world no longer tracks.
func (s *Server) resync(sess *mud.Session) {
	s.log.Info("ws: resync", "player", sess.PlayerID)
	if err := s.world.Join(sess); err != nil {
		s.log.Warn("ws: resync not queued", "player", sess.PlayerID, "error", err)
	}
}

func (s *Server) handshake(conn *websocket.Conn) *mud.Session {
	_ = conn.SetReadDeadline(time.Now().Add(handshakeTimeout))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return nil
	}

	base, err := s.validator.Validate(msg)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"), time.Now().Add(time.Second))
		return nil
	}
	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return nil
	}
	if hello.ProtocolVersion != protocol.Version {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad protocol_version"), time.Now().Add(time.Second))
		return nil
	}

	sess, err := s.world.Connect(hello.Name)
	if err != nil {
		_ = writeJSON(conn, protocol.NewError(protocol.CodeFor(err), err.Error()))
		return nil
	}
	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		PlayerID:        sess.PlayerID,
		Name:            sess.Name,
		Stages:          s.world.Stages(),
	}
	if err := writeJSON(conn, welcome); err != nil {
		_ = s.world.Disconnect(sess)
		return nil
	}
	s.log.Info("ws: connected", "player", sess.PlayerID, "name", sess.Name)
	return sess
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(websocket.TextMessage, b)
}

// ─── HTTP endpoints ──────────────────────────────────────────────────────────

type statusResponse struct {
	Online int            `json:"online"`
	Stages []stage.Status `json:"stages"`
}

func (s *Server) handleStatus(rw http.ResponseWriter, r *http.Request) {
	writeHTTPJSON(rw, http.StatusOK, statusResponse{Online: s.world.Online(), Stages: s.world.Status()})
}

func (s *Server) handleLeaderboard(rw http.ResponseWriter, r *http.Request) {
	n := defaultTop
	if q := r.URL.Query().Get("n"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil || v <= 0 {
			http.Error(rw, "bad n", http.StatusBadRequest)
			return
		}
		n = min(v, maxTop)
	}
	runs := []leaderboard.Run{}
	if s.board != nil {
		top, err := s.board.Top(r.Context(), n)
		if err != nil {
			s.log.Error("leaderboard query", "error", err)
			http.Error(rw, "leaderboard unavailable", http.StatusInternalServerError)
			return
		}
		runs = append(runs, top...)
	}
	writeHTTPJSON(rw, http.StatusOK, runs)
}

func writeHTTPJSON(rw http.ResponseWriter, status int, v any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(v)
}
