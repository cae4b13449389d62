package endpoints

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/projeto-canaa/cadastro/pkg/audit"
	"github.com/projeto-canaa/cadastro/pkg/logging"
	"github.com/projeto-canaa/cadastro/pkg/lookup"
	"github.com/projeto-canaa/cadastro/pkg/server"
	"github.com/projeto-canaa/cadastro/pkg/server/store"
)

func RegisterQRCodeEndpoints(s *server.Server) {
	// GET /qrcode/{protocolo} - Download the lookup code as a PNG attachment
	s.Router.HandleFunc("/qrcode/{protocolo}", handleQRCode(s.CadastrosStore, s.Lookup, s.Audit, s.Logger)).Methods("GET")
}

func handleQRCode(cadastrosStore store.CadastrosStore, generator *lookup.Generator, auditor *audit.Auditor, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		protocolo := protocoloVar(r)
		clientIP := getClientIP(r)

		failed := func(err error) {
			auditor.Log(ctx, audit.QRCodeFetchEvent{
				Protocolo:    protocolo,
				ClientIP:     clientIP,
				Success:      false,
				ErrorMessage: err.Error(),
			})
		}

		if _, err := cadastrosStore.FetchByProtocol(ctx, protocolo); err != nil {
			failed(err)
			if errors.Is(err, store.ErrCadastroNotFound) {
				respondWithError(w, http.StatusNotFound, msgNotFound)
				return
			}
			logging.For(ctx, logger).ErrorContext(ctx, "qrcode lookup failed", "protocolo", protocolo, "error", err)
			respondWithError(w, http.StatusInternalServerError, msgQRCodeFailed+err.Error())
			return
		}

		png, err := generator.PNG(protocolo)
		if err != nil {
			failed(err)
			logging.For(ctx, logger).ErrorContext(ctx, "qrcode render failed", "protocolo", protocolo, "error", err)
			respondWithError(w, http.StatusInternalServerError, msgQRCodeFailed+err.Error())
			return
		}

		auditor.Log(ctx, audit.QRCodeFetchEvent{
			Protocolo: protocolo,
			ClientIP:  clientIP,
			Success:   true,
		})

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
			"filename": "qrcode_" + protocolo + ".png",
		}))
		w.Header().Set("Content-Length", strconv.Itoa(len(png)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(png)
	}
}
