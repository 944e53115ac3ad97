package journal

import (
	"context"

	"github.com/gabapcia/catapultcli/internal/pkg/catapult"

	"github.com/stretchr/testify/mock"
)

type StorageMock struct {
	mock.Mock
}

func NewStorageMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *StorageMock {
	m := &StorageMock{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *StorageMock) SaveEntry(ctx context.Context, entry Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *StorageMock) FindEntry(ctx context.Context, hash catapult.Hash) (Entry, error) {
	args := m.Called(ctx, hash)
	return args.Get(0).(Entry), args.Error(1)
}
