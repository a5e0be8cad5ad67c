package mocks

import (
	"context"

	"peopleapi/internal/model"
	"peopleapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockPersonService struct {
	mock.Mock
}

var _ service.PersonService = (*MockPersonService)(nil)

func (m *MockPersonService) List(ctx context.Context) (*service.PeopleList, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PeopleList), args.Error(1)
}

func (m *MockPersonService) Get(ctx context.Context, id string) (*model.Person, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Person), args.Error(1)
}
