package account

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type StoreMock struct {
	mock.Mock
}

func NewStoreMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *StoreMock {
	m := &StoreMock{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *StoreMock) FindAccount(ctx context.Context, name string) (Record, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(Record), args.Error(1)
}

type WriterMock struct {
	mock.Mock
}

func NewWriterMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *WriterMock {
	m := &WriterMock{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *WriterMock) SaveAccount(ctx context.Context, record Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}
