// Package mocks holds testify mocks for the ports used by adapter and
// platform tests. Each mock follows the expecter layout:
//
//	m := mocks.NewMockHealthChecker(t)
//	m.EXPECT().Name().Return("postgres")
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen11/taskboard-service/internal/ports"
)

// MockHealthChecker is a mock of ports.HealthChecker.
type MockHealthChecker struct {
	mock.Mock
}

// NewMockHealthChecker creates a MockHealthChecker whose expectations are
// asserted when the test ends.
func NewMockHealthChecker(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockHealthChecker {
	m := &MockHealthChecker{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockHealthChecker_Expecter records expectations on a MockHealthChecker.
type MockHealthChecker_Expecter struct {
	mock *mock.Mock
}

func (m *MockHealthChecker) EXPECT() *MockHealthChecker_Expecter {
	return &MockHealthChecker_Expecter{mock: &m.Mock}
}

func (m *MockHealthChecker) Name() string {
	ret := m.Called()
	if fn, ok := ret.Get(0).(func() string); ok {
		return fn()
	}
	return ret.String(0)
}

// MockHealthChecker_Name_Call wraps a Name expectation.
type MockHealthChecker_Name_Call struct {
	*mock.Call
}

func (e *MockHealthChecker_Expecter) Name() *MockHealthChecker_Name_Call {
	return &MockHealthChecker_Name_Call{Call: e.mock.On("Name")}
}

func (c *MockHealthChecker_Name_Call) Return(name string) *MockHealthChecker_Name_Call {
	c.Call.Return(name)
	return c
}

func (c *MockHealthChecker_Name_Call) Maybe() *MockHealthChecker_Name_Call {
	c.Call.Maybe()
	return c
}

func (m *MockHealthChecker) HealthCheck(ctx context.Context) error {
	ret := m.Called(ctx)
	if fn, ok := ret.Get(0).(func(context.Context) error); ok {
		return fn(ctx)
	}
	return ret.Error(0)
}

// MockHealthChecker_HealthCheck_Call wraps a HealthCheck expectation.
type MockHealthChecker_HealthCheck_Call struct {
	*mock.Call
}

func (e *MockHealthChecker_Expecter) HealthCheck(ctx any) *MockHealthChecker_HealthCheck_Call {
	return &MockHealthChecker_HealthCheck_Call{Call: e.mock.On("HealthCheck", ctx)}
}

func (c *MockHealthChecker_HealthCheck_Call) Return(err error) *MockHealthChecker_HealthCheck_Call {
	c.Call.Return(err)
	return c
}

func (c *MockHealthChecker_HealthCheck_Call) RunAndReturn(fn func(context.Context) error) *MockHealthChecker_HealthCheck_Call {
	c.Call.Return(fn)
	return c
}

func (c *MockHealthChecker_HealthCheck_Call) Maybe() *MockHealthChecker_HealthCheck_Call {
	c.Call.Maybe()
	return c
}

// MockHealthRegistry is a mock of ports.HealthRegistry.
type MockHealthRegistry struct {
	mock.Mock
}

// NewMockHealthRegistry creates a MockHealthRegistry whose expectations are
// asserted when the test ends.
func NewMockHealthRegistry(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockHealthRegistry {
	m := &MockHealthRegistry{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockHealthRegistry_Expecter records expectations on a MockHealthRegistry.
type MockHealthRegistry_Expecter struct {
	mock *mock.Mock
}

func (m *MockHealthRegistry) EXPECT() *MockHealthRegistry_Expecter {
	return &MockHealthRegistry_Expecter{mock: &m.Mock}
}

func (m *MockHealthRegistry) Register(checker ports.HealthChecker) {
	m.Called(checker)
}

// MockHealthRegistry_Register_Call wraps a Register expectation.
type MockHealthRegistry_Register_Call struct {
	*mock.Call
}

func (e *MockHealthRegistry_Expecter) Register(checker any) *MockHealthRegistry_Register_Call {
	return &MockHealthRegistry_Register_Call{Call: e.mock.On("Register", checker)}
}

func (c *MockHealthRegistry_Register_Call) Return() *MockHealthRegistry_Register_Call {
	c.Call.Return()
	return c
}

func (m *MockHealthRegistry) CheckAll(ctx context.Context) map[string]error {
	ret := m.Called(ctx)
	if fn, ok := ret.Get(0).(func(context.Context) map[string]error); ok {
		return fn(ctx)
	}
	out, _ := ret.Get(0).(map[string]error)
	return out
}

// MockHealthRegistry_CheckAll_Call wraps a CheckAll expectation.
type MockHealthRegistry_CheckAll_Call struct {
	*mock.Call
}

func (e *MockHealthRegistry_Expecter) CheckAll(ctx any) *MockHealthRegistry_CheckAll_Call {
	return &MockHealthRegistry_CheckAll_Call{Call: e.mock.On("CheckAll", ctx)}
}

func (c *MockHealthRegistry_CheckAll_Call) Return(results map[string]error) *MockHealthRegistry_CheckAll_Call {
	c.Call.Return(results)
	return c
}
