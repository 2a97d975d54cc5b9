package mocks

import "github.com/stretchr/testify/mock"

// UnixProvider is a mock type for the unixProvider type.
type UnixProvider struct {
	mock.Mock
}

// Mount provides a mock function with given fields: source, target, fstype, flags, data
func (_m *UnixProvider) Mount(source, target, fstype string, flags uintptr, data string) error {
	ret := _m.Called(source, target, fstype, flags, data)

	return ret.Error(0)
}

// Unmount provides a mock function with given fields: target, flags
func (_m *UnixProvider) Unmount(target string, flags int) error {
	ret := _m.Called(target, flags)

	return ret.Error(0)
}

// Sync provides a mock function with no fields
func (_m *UnixProvider) Sync() {
	_m.Called()
}

// Geteuid provides a mock function with no fields
func (_m *UnixProvider) Geteuid() int {
	ret := _m.Called()

	return ret.Int(0)
}

// RootDevice provides a mock function with no fields
func (_m *UnixProvider) RootDevice() (string, error) {
	ret := _m.Called()

	return ret.String(0), ret.Error(1)
}

// NewUnixProvider creates a new instance of UnixProvider. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewUnixProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *UnixProvider {
	m := &UnixProvider{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
