// Package server exposes the solver over telnet and WebSocket. Clients paste a
// board diagram line by line and receive the cheapest solution.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/amphipod/internal/config"
	"github.com/lawnchairsociety/amphipod/internal/logger"
	"github.com/lawnchairsociety/amphipod/internal/solver"
)

type Server struct {
	address           string
	listener          net.Listener
	httpServer        *http.Server
	service           *solver.Service
	serverConfig      *config.ServerConfig
	searchConfig      config.SearchConfig
	sessions          map[*Session]struct{}
	mu                sync.RWMutex
	ctx               context.Context
	cancel            context.CancelFunc
	shutdown          chan struct{}
	shutdownOnce      sync.Once
	StartTime         time.Time
	connLimiter       *ConnLimiter
	submissionLimiter *SubmissionLimiter
	solveSlots        solveSlots
}

// NewServer creates a server for cfg.Server that answers with svc. Sessions
// start with cfg.Search's unfold and history settings.
func NewServer(cfg *config.Config, svc *solver.Service) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	serverCfg := cfg.Server
	return &Server{
		address:           serverCfg.TelnetAddr,
		service:           svc,
		serverConfig:      &serverCfg,
		searchConfig:      cfg.Search,
		sessions:          make(map[*Session]struct{}),
		ctx:               ctx,
		cancel:            cancel,
		shutdown:          make(chan struct{}),
		StartTime:         time.Now(),
		connLimiter:       NewConnLimiter(serverCfg.Connections),
		submissionLimiter: NewSubmissionLimiter(serverCfg.RateLimit),
		solveSlots:        newSolveSlots(serverCfg.Connections.MaxConcurrentSolves),
	}
}

// GetServerConfig returns the server configuration.
func (s *Server) GetServerConfig() *config.ServerConfig {
	return s.serverConfig
}

// Start listens for telnet clients and blocks until Shutdown.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	logger.Info("Server listening", "address", listener.Addr().String())

	go s.startIdleTimeoutTicker()

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-s.shutdown:
				return nil
			default:
				logger.Error("Error accepting connection", "error", err)
				continue
			}
		}

		go s.handleConnection(conn)
	}
}

// Addr returns the telnet listener's address once Start is listening.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) handleConnection(conn net.Conn) {
	remoteAddr := conn.RemoteAddr().String()
	ip := extractIP(remoteAddr)

	if !s.connLimiter.TryAcquire(ip) {
		logger.Warning("Connection rejected - limit exceeded",
			"remote_addr", remoteAddr,
			"ip", ip)
		conn.Write([]byte("Too many connections. Please try again later.\r\n"))
		conn.Close()
		return
	}

	defer func() {
		s.connLimiter.Release(ip)
		conn.Close()
	}()

	s.handleClient(NewTelnetClient(conn), ip)
}

// handleClient runs a session for either transport until the client leaves.
func (s *Server) handleClient(client Client, ip string) {
	logger.Info("Client connected", "remote_addr", client.RemoteAddr())

	session := newSession(s, client, ip)

	s.mu.Lock()
	s.sessions[session] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.sessions, session)
		s.mu.Unlock()

		logger.Info("Client disconnected", "remote_addr", client.RemoteAddr(), "solved", session.solved)
	}()

	session.Run()
}

// Handler returns the HTTP handler serving WebSocket sessions on /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocketUpgrade)
	return mux
}

// StartWebSocket serves WebSocket sessions on address and blocks until
// Shutdown.
func (s *Server) StartWebSocket(address string) error {
	srv := &http.Server{
		Addr:              address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	logger.Info("WebSocket server listening", "address", address)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// handleWebSocketUpgrade upgrades an HTTP connection to WebSocket.
func (s *Server) handleWebSocketUpgrade(w http.ResponseWriter, r *http.Request) {
	clientIP := getRealIP(r)

	if !s.connLimiter.TryAcquire(clientIP) {
		logger.Warning("WebSocket connection rejected - limit exceeded",
			"remote_addr", r.RemoteAddr,
			"client_ip", clientIP)
		http.Error(w, "Too many connections. Please try again later.", http.StatusTooManyRequests)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			allowed := s.serverConfig.WebSocket.IsOriginAllowed(origin, r.Host)
			if !allowed {
				logger.Warning("WebSocket connection rejected - origin not allowed",
					"origin", origin,
					"host", r.Host,
					"remote_addr", r.RemoteAddr)
			}
			return allowed
		},
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", "error", err)
		s.connLimiter.Release(clientIP)
		return
	}
	if limit := s.serverConfig.WebSocket.MaxMessageSize; limit > 0 {
		wsConn.SetReadLimit(limit)
	}

	go s.handleWebSocketConnection(wsConn, clientIP)
}

func (s *Server) handleWebSocketConnection(wsConn *websocket.Conn, clientIP string) {
	defer func() {
		s.connLimiter.Release(clientIP)
		wsConn.Close()
	}()

	s.handleClient(NewWebSocketClient(wsConn), clientIP)
}

// getRealIP returns the client IP of r, preferring the X-Forwarded-For and
// X-Real-IP headers set by reverse proxies.
func getRealIP(r *http.Request) string {
	// "client, proxy1, proxy2": the first entry is the original client
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if clientIP := strings.TrimSpace(first); clientIP != "" {
			return clientIP
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	return extractIP(r.RemoteAddr)
}

// SessionCount returns the number of connected clients.
func (s *Server) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Shutdown stops both listeners, cancels running searches and disconnects
// every client. It is safe to call more than once.
func (s *Server) Shutdown() {
	s.shutdownOnce.Do(func() {
		close(s.shutdown)
		s.cancel()

		s.mu.Lock()
		if s.listener != nil {
			s.listener.Close()
		}
		if s.httpServer != nil {
			s.httpServer.Close()
		}
		clients := make([]Client, 0, len(s.sessions))
		for session := range s.sessions {
			clients = append(clients, session.client)
		}
		s.mu.Unlock()

		// Close without a farewell: a peer that stopped reading would block it.
		for _, client := range clients {
			client.Close()
		}

		s.submissionLimiter.Stop()

		logger.Info("Server shutdown complete", "uptime", time.Since(s.StartTime).Round(time.Second))
	})
}

// startIdleTimeoutTicker disconnects idle clients until Shutdown.
func (s *Server) startIdleTimeoutTicker() {
	timeout := s.serverConfig.IdleTimeout()
	if timeout <= 0 {
		return
	}

	interval := timeout / 4
	if interval > 30*time.Second {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.shutdown:
			return
		case <-ticker.C:
			s.checkIdleSessions(timeout)
		}
	}
}

// checkIdleSessions disconnects clients that have sent nothing for timeout.
// Sessions waiting on a search are never idle.
func (s *Server) checkIdleSessions(timeout time.Duration) {
	var idle []*Session

	s.mu.RLock()
	for session := range s.sessions {
		if session.idleFor() >= timeout {
			idle = append(idle, session)
		}
	}
	s.mu.RUnlock()

	for _, session := range idle {
		logger.Info("Disconnecting idle client", "remote_addr", session.client.RemoteAddr())
		session.client.Close()
	}
}
