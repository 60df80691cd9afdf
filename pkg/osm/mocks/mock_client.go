// Package mocks provides test doubles for the osm client.
package mocks

import (
	"context"

	mock "github.com/stretchr/testify/mock"

	"github.com/sells-group/phonefix-cli/internal/model"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// Nodes provides a mock function with given fields: ctx, ids
func (_m *MockClient) Nodes(ctx context.Context, ids []int64) ([]model.Node, error) {
	ret := _m.Called(ctx, ids)

	if len(ret) == 0 {
		panic("no return value specified for Nodes")
	}

	var r0 []model.Node
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, []int64) ([]model.Node, error)); ok {
		return rf(ctx, ids)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.Node)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// NewMockClient creates a new instance of MockClient and registers cleanup
// assertions on t.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	m := &MockClient{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
