package announcer

import (
	"context"

	"github.com/gabapcia/catapultcli/internal/pkg/catapult"

	"github.com/stretchr/testify/mock"
)

type NodeMock struct {
	mock.Mock
}

func NewNodeMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *NodeMock {
	m := &NodeMock{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *NodeMock) Announce(ctx context.Context, signed catapult.SignedTransaction) (string, error) {
	args := m.Called(ctx, signed)
	return args.String(0), args.Error(1)
}
