// Code generated manually. DO NOT EDIT.

package mocks

import (
	"github.com/guttosm/truckload/internal/domain/model"
	"github.com/stretchr/testify/mock"
)

// MockResultSink is a mock implementation of service.ResultSink.
type MockResultSink struct {
	mock.Mock
}

// Emit records the call and returns the configured error.
func (m *MockResultSink) Emit(result model.Result) error {
	args := m.Called(result)
	return args.Error(0)
}
