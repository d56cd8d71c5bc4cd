package backend

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockBackend is a mock implementation of the Backend interface for testing.
type MockBackend struct {
	mock.Mock
}

// List is the mock implementation of the List method.
func (m *MockBackend) List(ctx context.Context, kind Kind, q Query) ([]Record, error) {
	args := m.Called(ctx, kind, q)
	records, _ := args.Get(0).([]Record)
	return records, args.Error(1) //nolint:wrapcheck
}

// GetByKey is the mock implementation of the GetByKey method.
func (m *MockBackend) GetByKey(ctx context.Context, kind Kind, field string, value any) (Record, bool, error) {
	args := m.Called(ctx, kind, field, value)
	record, _ := args.Get(0).(Record)
	return record, args.Bool(1), args.Error(2) //nolint:wrapcheck
}
