package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tradedesk/internal/model"
	"tradedesk/internal/service"
)

type MockProductService struct {
	mock.Mock
}

var _ service.ProductService = (*MockProductService)(nil)

func (m *MockProductService) Add(ctx context.Context, in service.ProductInput) (*model.Product, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Remove(ctx context.Context, id int64) int {
	args := m.Called(ctx, id)
	return args.Int(0)
}

func (m *MockProductService) Edit(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductService) List(ctx context.Context) []model.Product {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]model.Product)
}
