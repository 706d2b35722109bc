// Package server hosts the analysis dashboard: static assets, JSON API,
// OAuth login endpoints and a WebSocket channel for live run progress.
package server

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	logger "github.com/sirupsen/logrus"

	"github.com/canstralian/CodeQualityAI/application"
	"github.com/canstralian/CodeQualityAI/config"
	"github.com/canstralian/CodeQualityAI/domain"
	"github.com/canstralian/CodeQualityAI/infrastructure/oauth"
)

//go:embed web
var webFS embed.FS

var upgrader = websocket.Upgrader{
	CheckOrigin: func(_ *http.Request) bool {
		// The dashboard is same-origin; cross-origin sockets are fine for
		// local use.
		return true
	},
}

// MessageType tags a WebSocket update.
type MessageType string

const (
	MessageTypeStage    MessageType = "stage"
	MessageTypeProgress MessageType = "progress"
	MessageTypeWarning  MessageType = "warning"
	MessageTypeReport   MessageType = "report"
)

// UpdateMessage is the envelope every WebSocket update travels in.
type UpdateMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ReaderFactory builds a repository reader for one owner/repo pair. The
// server gets a fresh reader per analysis run so caches stay run-scoped.
type ReaderFactory func(owner, repo string) domain.RepositoryReader

// Server is the dashboard host. The last finished report is kept in memory
// and replayed to API consumers and newly connected WebSocket clients.
type Server struct {
	service *application.AnalysisService
	readers ReaderFactory
	flow    *oauth.Flow
	cfg     *config.Config

	// runMu serializes analysis runs; the readers' caches are not safe
	// for concurrent use.
	runMu sync.Mutex

	mu         sync.RWMutex
	lastReport *domain.Report

	clientsMu sync.RWMutex
	clients   map[*websocket.Conn]bool
	broadcast chan UpdateMessage
}

// NewServer wires the dashboard. flow may be nil when OAuth is not
// configured; the auth endpoints then report that state.
func NewServer(
	service *application.AnalysisService,
	readers ReaderFactory,
	flow *oauth.Flow,
	cfg *config.Config,
) *Server {
	s := &Server{
		service:   service,
		readers:   readers,
		flow:      flow,
		cfg:       cfg,
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan UpdateMessage, 256),
	}

	go s.runBroadcast()

	return s
}

// Handler returns the full route table. Exposed separately from Start so
// tests can drive it through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	assets, err := fs.Sub(webFS, "web")
	if err != nil {
		// The embedded tree always contains web/; an error here is a build
		// defect.
		panic(err)
	}
	mux.Handle("/", http.FileServer(http.FS(assets)))

	mux.HandleFunc("/api/analyze", s.handleAnalyze)
	mux.HandleFunc("/api/report", s.handleReport)
	mux.HandleFunc("/api/ws", s.handleWebSocket)
	mux.HandleFunc("/auth/login", s.handleLogin)
	mux.HandleFunc("/auth/callback", s.handleCallback)

	return mux
}

// Start blocks serving the dashboard on the configured address.
func (s *Server) Start() error {
	logger.Infof("Dashboard listening on %s", s.cfg.Server.Addr)
	return http.ListenAndServe(s.cfg.Server.Addr, s.Handler())
}

// handleWebSocket upgrades the connection, replays the last report and keeps
// the client registered until it disconnects.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Errorf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	s.clientsMu.Lock()
	s.clients[conn] = true
	total := len(s.clients)
	s.clientsMu.Unlock()
	logger.Infof("WebSocket client connected, %d total", total)

	s.sendInitialState(conn)

	// Block on reads; an error means the client went away.
	for {
		if _, _, readErr := conn.ReadMessage(); readErr != nil {
			break
		}
	}

	s.clientsMu.Lock()
	delete(s.clients, conn)
	total = len(s.clients)
	s.clientsMu.Unlock()
	logger.Infof("WebSocket client disconnected, %d total", total)
}

// sendInitialState replays the last finished report to a new client so the
// dashboard renders without waiting for the next run.
func (s *Server) sendInitialState(conn *websocket.Conn) {
	s.mu.RLock()
	report := s.lastReport
	s.mu.RUnlock()

	if report == nil {
		return
	}
	if err := conn.WriteJSON(UpdateMessage{Type: string(MessageTypeReport), Data: report}); err != nil {
		logger.Errorf("Failed to send initial state: %v", err)
	}
}

// runBroadcast fans queued updates out to every registered client.
func (s *Server) runBroadcast() {
	for msg := range s.broadcast {
		s.clientsMu.RLock()
		conns := make([]*websocket.Conn, 0, len(s.clients))
		for conn := range s.clients {
			conns = append(conns, conn)
		}
		s.clientsMu.RUnlock()

		for _, conn := range conns {
			if err := conn.WriteJSON(msg); err != nil {
				logger.Warnf("Dropping WebSocket client: %v", err)
				s.clientsMu.Lock()
				delete(s.clients, conn)
				s.clientsMu.Unlock()
				conn.Close()
			}
		}
	}
}

// broadcastUpdate queues one update without ever blocking the analysis run.
func (s *Server) broadcastUpdate(msgType MessageType, data any) {
	msg := UpdateMessage{Type: string(msgType), Data: data}

	select {
	case s.broadcast <- msg:
	default:
		logger.Warnf("Broadcast channel full, dropping %s message", msgType)
	}
}

// progressReporter bridges domain.Reporter onto the WebSocket hub.
type progressReporter struct {
	server *Server
}

var _ domain.Reporter = progressReporter{}

func (r progressReporter) Stage(name string) {
	r.server.broadcastUpdate(MessageTypeStage, map[string]any{"stage": name})
}

func (r progressReporter) FileProcessed(path string, index, total int) {
	r.server.broadcastUpdate(MessageTypeProgress, map[string]any{
		"path":  path,
		"index": index,
		"total": total,
	})
}

func (r progressReporter) Warnf(format string, args ...any) {
	r.server.broadcastUpdate(MessageTypeWarning, map[string]any{
		"message": fmt.Sprintf(format, args...),
	})
}
