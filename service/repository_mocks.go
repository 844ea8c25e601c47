package service

import (
	"context"

	"aurabot/models"

	"github.com/stretchr/testify/mock"
)

// MockLedgerStorage is a mock implementation of LedgerStorage
type MockLedgerStorage struct {
	mock.Mock
}

func (m *MockLedgerStorage) Load(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockLedgerStorage) Save(ctx context.Context, users []*models.User) error {
	args := m.Called(ctx, users)
	return args.Error(0)
}

func (m *MockLedgerStorage) Reset(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockRandom is a mock implementation of Random
type MockRandom struct {
	mock.Mock
}

func (m *MockRandom) Intn(n int) int {
	args := m.Called(n)
	return args.Int(0)
}
