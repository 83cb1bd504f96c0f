package httpserver

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/and161185/regolith/internal/realtime"
)

// serveWS upgrades the connection and keeps it registered as an observer
// until the peer disconnects.
func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response
		s.log.Debug("ws upgrade failed", zap.Error(err))
		return
	}
	if err := realtime.Attach(s.reg, s.pub, ws, s.log); err != nil {
		s.log.Debug("observer read loop ended", zap.Error(err))
	}
}
