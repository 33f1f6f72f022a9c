package ws

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/lucasmnd/duodle/internal/identity"
	"github.com/lucasmnd/duodle/internal/middleware"
	"github.com/lucasmnd/duodle/internal/model"
	"github.com/lucasmnd/duodle/internal/services/directory"
)

// Handler owns the websocket endpoint: it authenticates connections,
// runs their pumps, and dispatches inbound messages to the directory.
type Handler struct {
	directory directory.Interface
	verifier  identity.Verifier
	hub       *Hub
	logger    *slog.Logger
	upgrader  websocket.Upgrader
}

// HandlerConfig holds the handler's collaborators.
type HandlerConfig struct {
	Directory directory.Interface
	Verifier  identity.Verifier
	Hub       *Hub
	Logger    *slog.Logger
}

// NewHandler creates a websocket handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		directory: cfg.Directory,
		verifier:  cfg.Verifier,
		hub:       cfg.Hub,
		logger:    cfg.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The game is served from a separate origin.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Router builds the HTTP router: the websocket endpoint plus a health
// check.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Recovery(h.logger))

	r.Handle("/healthz", middleware.Logging(h.logger)(http.HandlerFunc(h.handleHealth))).Methods(http.MethodGet)
	r.HandleFunc("/ws", h.handleWS)
	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// handleWS authenticates and upgrades a connection, then serves it for
// its whole lifetime. Disconnection funnels through the directory's
// uniform exit path.
func (h *Handler) handleWS(w http.ResponseWriter, r *http.Request) {
	// An unverifiable token is treated as an anonymous connection; duo
	// play is gated per-command, not at the door.
	ident, err := h.verifier.Verify(r.URL.Query().Get("token"))
	if err != nil {
		h.logger.Warn("identity token rejected, continuing anonymously", slog.Any("error", err))
		ident = nil
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	client := newClient(model.ConnID(uuid.NewString()), ident, conn, h.logger)
	h.hub.register(client)

	h.logger.Info("client connected",
		slog.String("conn", string(client.id)),
		slog.Bool("identified", ident != nil),
	)

	go client.writePump()
	client.readPump(h.dispatch)

	h.hub.unregister(client)
	h.directory.Disconnect(client.id)

	h.logger.Info("client disconnected", slog.String("conn", string(client.id)))
}
