// Package config provides configuration management for the registration
// service.
//
// # Configuration Sources
//
// Values are resolved in order, later sources winning:
//
//   - Built-in defaults
//   - $CANAA_CONFIG_PATH/cadastro.yml, or cadastro.toml if there is no YAML file
//   - CANAA_<ATTRIBUTE> environment variables
//
// Every attribute remembers its source, see Config.Attributes.
//
// # Other Variables
//
//   - DATABASE_URL: Database connection
//   - PORT / BIND_ADDRESS: Server listen address
//   - CANAA_LOG_LEVEL: Logging verbosity
//   - AUDIT_DATABASE_URL: Optional audit message store
//
// Live holds the configuration in effect and can reload it when the file
// changes.
package config
