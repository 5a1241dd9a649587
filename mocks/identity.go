package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen11/taskboard-service/internal/domain/user"
)

// MockIdentityResolver is a mock of ports.IdentityResolver.
type MockIdentityResolver struct {
	mock.Mock
}

// NewMockIdentityResolver creates a MockIdentityResolver whose expectations
// are asserted when the test ends.
func NewMockIdentityResolver(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockIdentityResolver {
	m := &MockIdentityResolver{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockIdentityResolver_Expecter records expectations on a MockIdentityResolver.
type MockIdentityResolver_Expecter struct {
	mock *mock.Mock
}

func (m *MockIdentityResolver) EXPECT() *MockIdentityResolver_Expecter {
	return &MockIdentityResolver_Expecter{mock: &m.Mock}
}

func (m *MockIdentityResolver) ResolveActor(ctx context.Context, email string) (*user.User, error) {
	ret := m.Called(ctx, email)
	if fn, ok := ret.Get(0).(func(context.Context, string) (*user.User, error)); ok {
		return fn(ctx, email)
	}
	u, _ := ret.Get(0).(*user.User)
	return u, ret.Error(1)
}

// MockIdentityResolver_ResolveActor_Call wraps a ResolveActor expectation.
type MockIdentityResolver_ResolveActor_Call struct {
	*mock.Call
}

func (e *MockIdentityResolver_Expecter) ResolveActor(ctx, email any) *MockIdentityResolver_ResolveActor_Call {
	return &MockIdentityResolver_ResolveActor_Call{Call: e.mock.On("ResolveActor", ctx, email)}
}

func (c *MockIdentityResolver_ResolveActor_Call) Return(u *user.User, err error) *MockIdentityResolver_ResolveActor_Call {
	c.Call.Return(u, err)
	return c
}
