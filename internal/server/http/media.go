package httpserver

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/crypto/blake2b"

	"github.com/and161185/regolith/internal/errs"
)

const (
	imageExt       = ".png"
	faviconKey     = "favicon.ico"
	maxUploadBytes = 10 << 20
)

func (s *Server) getImage(w http.ResponseWriter, r *http.Request) {
	s.serveBlob(w, r, r.PathValue("name")+imageExt, "Image not found")
}

func (s *Server) getFavicon(w http.ResponseWriter, r *http.Request) {
	s.serveBlob(w, r, faviconKey, "Favicon not found")
}

func (s *Server) serveBlob(w http.ResponseWriter, r *http.Request, key, notFound string) {
	data, err := s.blobs.Fetch(r.Context(), key)
	if err != nil {
		s.writeError(w, r, notFound, err)
		return
	}
	w.Header().Set("Content-Type", mimetype.Detect(data).String())
	w.Header().Set("ETag", etag(data))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	// handles If-None-Match and Range
	http.ServeContent(w, r, key, time.Time{}, bytes.NewReader(data))
}

func (s *Server) putImage(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		s.writeError(w, r, "", fmt.Errorf("read upload: %v: %w", err, errs.ErrValidation))
		return
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		s.writeError(w, r, "", fmt.Errorf("unsupported content type %s: %w", mt.String(), errs.ErrValidation))
		return
	}
	key, err := s.blobs.Put(r.Context(), r.PathValue("name")+imageExt, data)
	if err != nil {
		s.writeError(w, r, "Image not found", err)
		return
	}
	w.Header().Set("ETag", etag(data))
	writeJSON(w, http.StatusCreated, map[string]string{"key": key, "content_type": mt.String()})
}

// etag is a strong validator over the blob content.
func etag(data []byte) string {
	sum := blake2b.Sum256(data)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}
