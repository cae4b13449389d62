// Package server provides the HTTP server for the registration API.
//
// It uses gorilla/mux for routing and gorilla/handlers for access logging,
// CORS and panic recovery. Every routed request gets an X-Request-ID and a
// duration sample.
//
// # Server Setup
//
//	srv := server.NewServer(db, cfg, intake, logger, "0.0.0.0", "8000")
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Components
//
// The Server struct holds:
//
//   - Router: HTTP request router
//   - DB: Database connection
//   - CadastrosStore, HealthStore: storage, GORM-backed unless replaced
//   - Documents: supporting-document intake over a blob store
//   - Lookup: QR lookup-code generator
//   - Metrics, Audit: Prometheus collectors and the audit trail
//
// # Endpoints
//
// API endpoints are registered via the endpoints subpackage:
//
//   - POST /cadastro - submit a registration
//   - GET /consulta/{protocolo} - fetch one registration
//   - GET /qrcode/{protocolo} - download the lookup code
//   - GET /cadastros - paginated list
//   - GET /uploads/{filename} - download a stored document
//   - GET /, /health, /metrics - status
package server
