// Package store provides storage abstractions for the registration server.
//
// Endpoints depend on these interfaces rather than on GORM directly, so
// handler tests can run against testify mocks.
//
// # Available Stores
//
//   - CadastrosStore: create, fetch by protocol, protocol existence, paginated list
//   - HealthStore: database connectivity for /health
//
// # Usage
//
//	cadastros := gorm.NewCadastrosStore(db)
//	c, err := cadastros.FetchByProtocol(ctx, "CANAA-20240102030405-123")
//	if err != nil {
//	    if errors.Is(err, store.ErrCadastroNotFound) {
//	        // Handle not found
//	    }
//	}
package store
