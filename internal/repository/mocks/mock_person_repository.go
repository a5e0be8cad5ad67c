package mocks

import (
	"context"

	"peopleapi/internal/model"
	"peopleapi/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockPersonRepository struct {
	mock.Mock
}

var _ repository.PersonRepository = (*MockPersonRepository)(nil)

func (m *MockPersonRepository) List(ctx context.Context, limit int) ([]model.Person, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Person), args.Error(1)
}

func (m *MockPersonRepository) FindByID(ctx context.Context, id string) (*model.Person, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Person), args.Error(1)
}
