package gorm

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/projeto-canaa/cadastro/pkg/model"
	"github.com/projeto-canaa/cadastro/pkg/server/store"
)

// Ensure CadastrosStore implements store.CadastrosStore
var _ store.CadastrosStore = (*CadastrosStore)(nil)

// CadastrosStore implements store.CadastrosStore using GORM
type CadastrosStore struct {
	db *gorm.DB
}

// NewCadastrosStore creates a new CadastrosStore
func NewCadastrosStore(db *gorm.DB) *CadastrosStore {
	return &CadastrosStore{db: db}
}

// Create inserts the registration inside a transaction. On error nothing
// is committed.
func (s *CadastrosStore) Create(ctx context.Context, cadastro *model.Cadastro) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(cadastro).Error; err != nil {
			return fmt.Errorf("insert cadastro %s: %w", cadastro.Protocolo, err)
		}
		return nil
	})
}

// FetchByProtocol retrieves a registration by protocol.
func (s *CadastrosStore) FetchByProtocol(ctx context.Context, protocolo string) (*model.Cadastro, error) {
	var cadastro model.Cadastro
	tx := s.db.WithContext(ctx).Where("protocolo = ?", protocolo).First(&cadastro)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrCadastroNotFound
		}
		return nil, tx.Error
	}
	return &cadastro, nil
}

// ProtocolExists reports whether a registration already uses protocolo.
func (s *CadastrosStore) ProtocolExists(ctx context.Context, protocolo string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.Cadastro{}).Where("protocolo = ?", protocolo).Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// List returns one page of registrations ordered by id.
func (s *CadastrosStore) List(ctx context.Context, page, perPage int) (*store.Page, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}

	total, err := s.Count(ctx)
	if err != nil {
		return nil, err
	}

	result := &store.Page{
		Items:   []model.Cadastro{},
		Total:   total,
		Pages:   store.PageCount(total, perPage),
		Page:    page,
		PerPage: perPage,
	}

	offset := (page - 1) * perPage
	if int64(offset) >= total {
		return result, nil
	}

	err = s.db.WithContext(ctx).
		Order("id").
		Limit(perPage).
		Offset(offset).
		Find(&result.Items).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Count returns the number of stored registrations.
func (s *CadastrosStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.Cadastro{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
