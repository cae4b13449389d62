// Command cadastroctl runs the Projeto Canaã registration service.
//
// # Usage
//
//	# Create or upgrade the schema
//	cadastroctl db migrate
//
//	# Start the server, reloading configuration on file changes
//	cadastroctl server --watch-config
//
//	# Render the lookup code of a protocol
//	cadastroctl qrcode CANAA-20240102030405-123 -o qrcode.png
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - AUDIT_DATABASE_URL: optional database for audit messages
//   - CANAA_CONFIG_PATH: directory holding cadastro.yml or cadastro.toml
//   - CANAA_LOG_LEVEL: log level (debug, info, warn, error)
//   - PORT, BIND_ADDRESS: listen address (default 0.0.0.0:8000)
//
// Every configuration attribute can also be set as CANAA_<NAME>; run
// "cadastroctl configuration show" to list them.
package main
