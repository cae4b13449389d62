package endpoints

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/projeto-canaa/cadastro/pkg/model"
	"github.com/projeto-canaa/cadastro/pkg/server/store"
)

// MockCadastrosStore implements store.CadastrosStore for testing using testify/mock
type MockCadastrosStore struct {
	mock.Mock
}

func NewMockCadastrosStore() *MockCadastrosStore {
	return &MockCadastrosStore{}
}

func (m *MockCadastrosStore) Create(ctx context.Context, cadastro *model.Cadastro) error {
	args := m.Called(ctx, cadastro)
	return args.Error(0)
}

func (m *MockCadastrosStore) FetchByProtocol(ctx context.Context, protocolo string) (*model.Cadastro, error) {
	args := m.Called(ctx, protocolo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cadastro), args.Error(1)
}

func (m *MockCadastrosStore) ProtocolExists(ctx context.Context, protocolo string) (bool, error) {
	args := m.Called(ctx, protocolo)
	return args.Bool(0), args.Error(1)
}

func (m *MockCadastrosStore) List(ctx context.Context, page, perPage int) (*store.Page, error) {
	args := m.Called(ctx, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Page), args.Error(1)
}

func (m *MockCadastrosStore) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockHealthStore implements store.HealthStore for testing using testify/mock
type MockHealthStore struct {
	mock.Mock
}

func NewMockHealthStore() *MockHealthStore {
	return &MockHealthStore{}
}

func (m *MockHealthStore) CheckConnectivity(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
