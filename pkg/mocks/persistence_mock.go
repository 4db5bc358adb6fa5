package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/openlms/courseflow/pkg/persistence"
	"github.com/openlms/courseflow/pkg/wire"
)

// MockTemplateRepository is a mock implementation of
// persistence.TemplateRepository interface.
type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) List(ctx context.Context) ([]*wire.Template, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*wire.Template), args.Error(1)
}

func (m *MockTemplateRepository) GetByID(ctx context.Context, id string) (*wire.Template, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*wire.Template), args.Error(1)
}

func (m *MockTemplateRepository) Save(ctx context.Context, template *wire.Template) (*wire.Template, error) {
	args := m.Called(ctx, template)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*wire.Template), args.Error(1)
}

func (m *MockTemplateRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

// MockPersistence is a mock implementation of persistence.Persistence
// interface.
type MockPersistence struct {
	mock.Mock
}

func (m *MockPersistence) TemplateRepository() persistence.TemplateRepository {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}

	return args.Get(0).(persistence.TemplateRepository)
}

func (m *MockPersistence) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

func (m *MockPersistence) Close(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}
