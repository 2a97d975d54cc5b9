// Package mocks holds testify mocks for the system providers used by the
// backup handler.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/woliveiras/sdbackup/pkg/system"
)

// CommandProvider is a mock type for the commandProvider type.
type CommandProvider struct {
	mock.Mock
}

// LookPath provides a mock function with given fields: file
func (_m *CommandProvider) LookPath(file string) (string, error) {
	ret := _m.Called(file)

	return ret.String(0), ret.Error(1)
}

// Run provides a mock function with given fields: ctx, cmd
func (_m *CommandProvider) Run(ctx context.Context, cmd system.Command) error {
	ret := _m.Called(ctx, cmd)

	return ret.Error(0)
}

// Output provides a mock function with given fields: ctx, name, args
func (_m *CommandProvider) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	ret := _m.Called(ctx, name, args)

	var out []byte
	if v := ret.Get(0); v != nil {
		out = v.([]byte)
	}

	return out, ret.Error(1)
}

// NewCommandProvider creates a new instance of CommandProvider. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewCommandProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *CommandProvider {
	m := &CommandProvider{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
