package mocks

import (
	"context"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/stretchr/testify/mock"
)

// DiskProvider is a mock type for the diskProvider type.
type DiskProvider struct {
	mock.Mock
}

// Partitions provides a mock function with given fields: ctx
func (_m *DiskProvider) Partitions(ctx context.Context) ([]disk.PartitionStat, error) {
	ret := _m.Called(ctx)

	var parts []disk.PartitionStat
	if v := ret.Get(0); v != nil {
		parts = v.([]disk.PartitionStat)
	}

	return parts, ret.Error(1)
}

// Usage provides a mock function with given fields: ctx, path
func (_m *DiskProvider) Usage(ctx context.Context, path string) (*disk.UsageStat, error) {
	ret := _m.Called(ctx, path)

	var usage *disk.UsageStat
	if v := ret.Get(0); v != nil {
		usage = v.(*disk.UsageStat)
	}

	return usage, ret.Error(1)
}

// NewDiskProvider creates a new instance of DiskProvider. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewDiskProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *DiskProvider {
	m := &DiskProvider{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
