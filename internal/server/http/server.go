// Package httpserver exposes the record store, the observer socket and the
// media endpoints over HTTP.
package httpserver

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/and161185/regolith/internal/blob"
	"github.com/and161185/regolith/internal/realtime"
	"github.com/and161185/regolith/internal/service"
)

// Deps are the collaborators the handlers are built on.
type Deps struct {
	Items    service.ItemService
	Users    service.UserService
	Messages service.MessageService
	Blobs    blob.Store
	Registry *realtime.Registry
	Notifier realtime.Publisher
	Log      *zap.Logger

	// AllowedOrigins is "*" or a comma-separated origin list, applied to
	// CORS and to websocket upgrades.
	AllowedOrigins string
}

// Server wires services into HTTP handlers.
type Server struct {
	items    service.ItemService
	users    service.UserService
	messages service.MessageService
	blobs    blob.Store
	reg      *realtime.Registry
	pub      realtime.Publisher
	log      *zap.Logger
	origins  string
	upgrader websocket.Upgrader
}

// New constructs a Server with injected dependencies.
func New(d Deps) *Server {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.AllowedOrigins == "" {
		d.AllowedOrigins = "*"
	}
	s := &Server{
		items:    d.Items,
		users:    d.Users,
		messages: d.Messages,
		blobs:    d.Blobs,
		reg:      d.Registry,
		pub:      d.Notifier,
		log:      d.Log,
		origins:  d.AllowedOrigins,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || originAllowed(s.origins, origin)
		},
	}
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /items", s.createItem)
	mux.HandleFunc("GET /items", s.listItems)
	mux.HandleFunc("GET /items/{id}", s.getItem)
	mux.HandleFunc("PUT /items/{id}", s.updateItem)
	mux.HandleFunc("DELETE /items/{id}", s.deleteItem)

	mux.HandleFunc("POST /users", s.createUser)
	mux.HandleFunc("GET /users", s.listUsers)
	mux.HandleFunc("GET /users/{id}", s.getUser)
	mux.HandleFunc("DELETE /users/{id}", s.deleteUser)

	mux.HandleFunc("POST /messages", s.createMessage)
	mux.HandleFunc("GET /messages", s.listMessages)

	mux.HandleFunc("GET /ws", s.serveWS)

	mux.HandleFunc("GET /image/{name}", s.getImage)
	mux.HandleFunc("PUT /image/{name}", s.putImage)
	mux.HandleFunc("GET /favicon.ico", s.getFavicon)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "observers": s.reg.Len()})
	})

	return Chain(
		Logging(s.log),
		Recover(s.log),
		CORS(s.origins),
	)(mux)
}

func originAllowed(allowed, origin string) bool {
	if allowed == "*" {
		return true
	}
	for _, o := range strings.Split(allowed, ",") {
		if strings.TrimSpace(o) == origin {
			return true
		}
	}
	return false
}
