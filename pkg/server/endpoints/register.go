package endpoints

import (
	"github.com/projeto-canaa/cadastro/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterCadastroEndpoints(srv)
	RegisterQRCodeEndpoints(srv)
	RegisterUploadsEndpoints(srv)
	RegisterStatusEndpoints(srv)
}
