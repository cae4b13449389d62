package store

import (
	"context"
	"errors"

	"github.com/projeto-canaa/cadastro/pkg/model"
)

// ErrCadastroNotFound is returned when no registration carries the protocol
var ErrCadastroNotFound = errors.New("cadastro not found")

// Page is one page of the registration list
type Page struct {
	Items   []model.Cadastro
	Total   int64
	Pages   int
	Page    int
	PerPage int
}

// CadastrosStore abstracts registration storage operations
type CadastrosStore interface {
	// Create inserts a registration in a single transaction.
	Create(ctx context.Context, cadastro *model.Cadastro) error

	// FetchByProtocol retrieves a registration by protocol.
	// Returns ErrCadastroNotFound if no row matches.
	FetchByProtocol(ctx context.Context, protocolo string) (*model.Cadastro, error)

	// ProtocolExists reports whether a protocol is already taken.
	ProtocolExists(ctx context.Context, protocolo string) (bool, error)

	// List returns registrations ordered by id. page and perPage below 1
	// are treated as 1; the returned Page carries the values used.
	List(ctx context.Context, page, perPage int) (*Page, error)

	// Count returns the number of stored registrations.
	Count(ctx context.Context) (int64, error)
}

// PageCount returns ceil(total/perPage), 0 when there is nothing to list.
func PageCount(total int64, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
