package endpoints

import (
	"errors"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"github.com/projeto-canaa/cadastro/pkg/audit"
	"github.com/projeto-canaa/cadastro/pkg/config"
	"github.com/projeto-canaa/cadastro/pkg/logging"
	"github.com/projeto-canaa/cadastro/pkg/metrics"
	"github.com/projeto-canaa/cadastro/pkg/model"
	"github.com/projeto-canaa/cadastro/pkg/server"
	"github.com/projeto-canaa/cadastro/pkg/server/store"
)

const (
	msgNoData       = "Dados não fornecidos"
	msgTooLarge     = "Requisição excede o tamanho máximo permitido"
	msgCreated      = "Cadastro realizado com sucesso!"
	msgNotFound     = "Protocolo não encontrado"
	msgCreateFailed = "Erro ao processar cadastro: "
	msgFetchFailed  = "Erro ao consultar cadastro: "
	msgListFailed   = "Erro ao listar cadastros: "
	msgQRCodeFailed = "Erro ao gerar QR code: "
	documentsField  = "documentos"
	multipartMemory = 8 << 20
	jsonContentType = "application/json"
)

// CreateCadastroResponse is returned by POST /cadastro
type CreateCadastroResponse struct {
	Success   bool   `json:"success"`
	Protocolo string `json:"protocolo"`
	QRCode    string `json:"qr_code"`
	Message   string `json:"message"`
}

// CadastroResponse is returned by GET /consulta/{protocolo}
type CadastroResponse struct {
	Success  bool           `json:"success"`
	Cadastro model.Transfer `json:"cadastro"`
}

// CadastrosResponse is one page of GET /cadastros
type CadastrosResponse struct {
	Success     bool             `json:"success"`
	Cadastros   []model.Transfer `json:"cadastros"`
	Total       int64            `json:"total"`
	Pages       int              `json:"pages"`
	CurrentPage int              `json:"current_page"`
}

func RegisterCadastroEndpoints(s *server.Server) {
	router := s.Router
	cadastrosStore := s.CadastrosStore

	// POST /cadastro - Submit a registration (multipart form or JSON)
	router.HandleFunc("/cadastro", handleCreateCadastro(s)).Methods("POST")

	// GET /consulta/{protocolo} - Fetch one registration
	router.HandleFunc("/consulta/{protocolo}", handleFetchCadastro(cadastrosStore, s.Audit, s.Logger)).Methods("GET")

	// GET /cadastros?page=&per_page= - Paginated list
	router.HandleFunc("/cadastros", handleListCadastros(cadastrosStore, s.Config, s.Audit, s.Logger)).Methods("GET")
}

// readSubmission decodes the request body. Multipart and urlencoded forms
// carry files under "documentos"; a JSON body carries no files.
func readSubmission(w http.ResponseWriter, r *http.Request, maxBytes int64) (model.Submission, []*multipart.FileHeader, error) {
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == jsonContentType {
		submission, err := model.SubmissionFromJSON(r.Body)
		return submission, nil, err
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, nil, err
	}

	var files []*multipart.FileHeader
	if r.MultipartForm != nil {
		files = r.MultipartForm.File[documentsField]
	}
	return model.SubmissionFromForm(r.PostForm), files, nil
}

func handleCreateCadastro(s *server.Server) http.HandlerFunc {
	cadastrosStore := s.CadastrosStore
	intake := s.Documents

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		cfg := s.Config.Current()
		logger := logging.For(ctx, s.Logger)
		clientIP := getClientIP(r)

		reject := func(code int, message string) {
			s.Audit.Log(ctx, audit.CadastroCreateEvent{
				ClientIP:     clientIP,
				Success:      false,
				ErrorMessage: message,
			})
			respondWithError(w, code, message)
		}

		submission, files, err := readSubmission(w, r, cfg.MaxUploadBytes)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				reject(http.StatusRequestEntityTooLarge, msgTooLarge)
				return
			}
			logger.InfoContext(ctx, "unreadable submission", "error", err)
			reject(http.StatusBadRequest, msgNoData)
			return
		}
		if len(submission) == 0 {
			reject(http.StatusBadRequest, msgNoData)
			return
		}

		var stored []string
		fail := func(stage string, protocolo string, err error) {
			if len(stored) > 0 {
				intake.Remove(ctx, stored)
			}
			s.Metrics.IncrementFailure(stage)
			logger.ErrorContext(ctx, "cadastro failed", "stage", stage, "protocolo", protocolo, "error", err)
			s.Audit.Log(ctx, audit.CadastroCreateEvent{
				Protocolo:    protocolo,
				ClientIP:     clientIP,
				Success:      false,
				ErrorMessage: err.Error(),
			})
			respondWithError(w, http.StatusInternalServerError, msgCreateFailed+err.Error())
		}

		protocolo, err := s.Protocols().Unique(ctx, cadastrosStore.ProtocolExists)
		if err != nil {
			fail(metrics.StageProtocol, "", err)
			return
		}

		saved, err := intake.Save(ctx, protocolo, files)
		if err != nil {
			fail(metrics.StageDocuments, protocolo, err)
			return
		}
		stored = saved.Stored
		s.Metrics.AddDocuments(len(saved.Stored), len(saved.Skipped))
		if len(saved.Skipped) > 0 {
			logger.InfoContext(ctx, "skipped documents with disallowed extensions", "protocolo", protocolo, "skipped", saved.Skipped)
		}

		cadastro, err := submission.Cadastro(protocolo, cfg.AddressDefaults())
		if err != nil {
			fail(metrics.StageDecode, protocolo, err)
			return
		}
		cadastro.Documentos = model.FileList(saved.Stored)

		qrCode, err := s.Lookup.Base64(protocolo)
		if err != nil {
			fail(metrics.StageLookup, protocolo, err)
			return
		}

		if err := cadastrosStore.Create(ctx, cadastro); err != nil {
			fail(metrics.StagePersist, protocolo, err)
			return
		}

		s.Metrics.IncrementCadastrosCreated()
		s.Audit.Log(ctx, audit.CadastroCreateEvent{
			Protocolo: protocolo,
			ClientIP:  clientIP,
			Documents: len(saved.Stored),
			Success:   true,
		})
		logger.InfoContext(ctx, "cadastro created", "protocolo", protocolo, "documents", len(saved.Stored))

		respondWithJSON(w, http.StatusCreated, CreateCadastroResponse{
			Success:   true,
			Protocolo: protocolo,
			QRCode:    qrCode,
			Message:   msgCreated,
		})
	}
}

func protocoloVar(r *http.Request) string {
	raw := mux.Vars(r)["protocolo"]
	if p, err := url.PathUnescape(raw); err == nil {
		return p
	}
	return raw
}

func handleFetchCadastro(cadastrosStore store.CadastrosStore, auditor *audit.Auditor, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		protocolo := protocoloVar(r)
		clientIP := getClientIP(r)

		cadastro, err := cadastrosStore.FetchByProtocol(ctx, protocolo)
		if err != nil {
			auditor.Log(ctx, audit.CadastroFetchEvent{
				Protocolo:    protocolo,
				ClientIP:     clientIP,
				Success:      false,
				ErrorMessage: err.Error(),
			})
			if errors.Is(err, store.ErrCadastroNotFound) {
				respondWithError(w, http.StatusNotFound, msgNotFound)
				return
			}
			logging.For(ctx, logger).ErrorContext(ctx, "fetch cadastro failed", "protocolo", protocolo, "error", err)
			respondWithError(w, http.StatusInternalServerError, msgFetchFailed+err.Error())
			return
		}

		auditor.Log(ctx, audit.CadastroFetchEvent{
			Protocolo: protocolo,
			ClientIP:  clientIP,
			Success:   true,
		})
		respondWithJSON(w, http.StatusOK, CadastroResponse{
			Success:  true,
			Cadastro: cadastro.Transfer(),
		})
	}
}

func handleListCadastros(cadastrosStore store.CadastrosStore, cfg config.Provider, auditor *audit.Auditor, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		current := cfg.Current()
		clientIP := getClientIP(r)

		page := positiveIntParam(r, "page", 1)
		perPage := positiveIntParam(r, "per_page", current.ListPerPageDefault)
		if current.ListPerPageMax > 0 && perPage > current.ListPerPageMax {
			perPage = current.ListPerPageMax
		}

		result, err := cadastrosStore.List(ctx, page, perPage)
		if err != nil {
			auditor.Log(ctx, audit.CadastroListEvent{
				ClientIP:     clientIP,
				Page:         page,
				PerPage:      perPage,
				Success:      false,
				ErrorMessage: err.Error(),
			})
			logging.For(ctx, logger).ErrorContext(ctx, "list cadastros failed", "page", page, "per_page", perPage, "error", err)
			respondWithError(w, http.StatusInternalServerError, msgListFailed+err.Error())
			return
		}

		items := make([]model.Transfer, 0, len(result.Items))
		for i := range result.Items {
			items = append(items, result.Items[i].Transfer())
		}

		auditor.Log(ctx, audit.CadastroListEvent{
			ClientIP: clientIP,
			Page:     result.Page,
			PerPage:  result.PerPage,
			Returned: len(items),
			Success:  true,
		})
		respondWithJSON(w, http.StatusOK, CadastrosResponse{
			Success:     true,
			Cadastros:   items,
			Total:       result.Total,
			Pages:       result.Pages,
			CurrentPage: result.Page,
		})
	}
}
