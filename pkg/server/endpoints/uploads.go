package endpoints

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/projeto-canaa/cadastro/pkg/audit"
	"github.com/projeto-canaa/cadastro/pkg/documents"
	"github.com/projeto-canaa/cadastro/pkg/logging"
	"github.com/projeto-canaa/cadastro/pkg/server"
)

const msgFileNotFound = "Arquivo não encontrado"

func RegisterUploadsEndpoints(s *server.Server) {
	// GET /uploads/{filename} - Serve a stored supporting document
	s.Router.HandleFunc("/uploads/{filename}", handleUploadedFile(s.Documents, s.Audit, s.Logger)).Methods("GET")
}

func handleUploadedFile(intake *documents.Intake, auditor *audit.Auditor, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		clientIP := getClientIP(r)

		filename, err := url.PathUnescape(mux.Vars(r)["filename"])
		if err != nil {
			filename = ""
		}

		info, body, err := intake.Open(ctx, filename)
		if err != nil {
			auditor.Log(ctx, audit.UploadFetchEvent{
				Filename:     filename,
				ClientIP:     clientIP,
				Success:      false,
				ErrorMessage: err.Error(),
			})
			if errors.Is(err, documents.ErrNotFound) {
				respondWithError(w, http.StatusNotFound, msgFileNotFound)
				return
			}
			logging.For(ctx, logger).ErrorContext(ctx, "open document failed", "filename", filename, "error", err)
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		defer body.Close()

		auditor.Log(ctx, audit.UploadFetchEvent{
			Filename: filename,
			ClientIP: clientIP,
			Success:  true,
		})

		contentType := info.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		w.Header().Set("Content-Type", contentType)
		if info.Size > 0 {
			w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
		}
		if !info.LastModified.IsZero() {
			w.Header().Set("Last-Modified", info.LastModified.UTC().Format(http.TimeFormat))
		}
		w.WriteHeader(http.StatusOK)
		if _, err := io.Copy(w, body); err != nil {
			logging.For(ctx, logger).WarnContext(ctx, "document transfer interrupted", "filename", filename, "error", err)
		}
	}
}
