package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/texforge/resumed/internal/history"
	"github.com/texforge/resumed/internal/render"
	"github.com/texforge/resumed/internal/resume"
)

// pdfFilename is the download name clients receive.
const pdfFilename = "resume.pdf"

// handleGenerateResume renders the resume posted as the JSON body.
func (s *Server) handleGenerateResume(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			writeClassifiedError(w, err)
			return
		}
		writeBadRequest(w, "failed to read request body")
		return
	}

	data, err := resume.Decode(body)
	if err != nil {
		writeClassifiedError(w, err)
		return
	}

	s.renderPDF(w, r, data, history.OriginRequest)
}

// handleGenerateFromAPI fetches resume data from the configured source and renders it.
func (s *Server) handleGenerateFromAPI(w http.ResponseWriter, r *http.Request) {
	if s.fetcher == nil {
		writeUnavailable(w, "remote resume source is not configured")
		return
	}

	data, err := s.fetcher.Fetch(r.Context())
	if err != nil {
		s.logger.Warn("fetching resume data failed", "error", err, "request_id", requestIDFrom(r.Context()))
		writeClassifiedError(w, err)
		return
	}

	s.renderPDF(w, r, data, history.OriginAPI)
}

// renderPDF runs the renderer and streams the PDF as an attachment.
func (s *Server) renderPDF(w http.ResponseWriter, r *http.Request, data *resume.Resume, origin history.Origin) {
	res, err := s.renderer.Render(r.Context(), render.Request{Resume: data, Origin: origin})
	s.extendWriteDeadline(w, r)
	if err != nil {
		writeClassifiedError(w, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "application/pdf")
	h.Set("Content-Disposition", `attachment; filename="`+pdfFilename+`"`)
	h.Set("Content-Length", strconv.Itoa(len(res.PDF)))
	h.Set("X-Render-ID", res.ID)
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // Best-effort write to response; connection may be closed
	w.Write(res.PDF)
}

// extendWriteDeadline re-arms the write timeout once the render has returned.
// Time spent queued for a render slot does not count against the response.
func (s *Server) extendWriteDeadline(w http.ResponseWriter, r *http.Request) {
	if s.writeTimeout <= 0 {
		return
	}
	err := http.NewResponseController(w).SetWriteDeadline(time.Now().Add(s.writeTimeout))
	if err != nil && !errors.Is(err, http.ErrNotSupported) {
		s.logger.Debug("extending write deadline failed", "error", err, "request_id", requestIDFrom(r.Context()))
	}
}
