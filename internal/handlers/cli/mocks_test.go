package cli

import (
	"context"

	"github.com/gabapcia/catapultcli/internal/account"
	nodeclient "github.com/gabapcia/catapultcli/internal/infra/blockchain/catapult"
	"github.com/gabapcia/catapultcli/internal/monitor"
	"github.com/gabapcia/catapultcli/internal/pkg/catapult"

	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// NodeMock stands in for both the announcer's node and the query API.
type NodeMock struct {
	mock.Mock
}

func NewNodeMock(t testingT) *NodeMock {
	m := &NodeMock{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *NodeMock) Announce(ctx context.Context, signed catapult.SignedTransaction) (string, error) {
	args := m.Called(ctx, signed)
	return args.String(0), args.Error(1)
}

func (m *NodeMock) AccountPublicKey(ctx context.Context, address catapult.Address) (catapult.PublicKey, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(catapult.PublicKey), args.Error(1)
}

func (m *NodeMock) LinkedMosaicID(ctx context.Context, id catapult.NamespaceID) (catapult.MosaicID, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(catapult.MosaicID), args.Error(1)
}

func (m *NodeMock) TransactionStatus(ctx context.Context, hash catapult.Hash) (nodeclient.TransactionStatus, error) {
	args := m.Called(ctx, hash)
	return args.Get(0).(nodeclient.TransactionStatus), args.Error(1)
}

type ManagerMock struct {
	mock.Mock
}

var _ monitor.Manager = (*ManagerMock)(nil)

func NewManagerMock(t testingT) *ManagerMock {
	m := &ManagerMock{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *ManagerMock) MonitorBlocks(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *ManagerMock) MonitorAddress(ctx context.Context, address catapult.Address) (bool, error) {
	args := m.Called(ctx, address)
	return args.Bool(0), args.Error(1)
}

func (m *ManagerMock) AwaitConfirmation(ctx context.Context, hash catapult.Hash) (monitor.Event, error) {
	args := m.Called(ctx, hash)
	return args.Get(0).(monitor.Event), args.Error(1)
}

func (m *ManagerMock) CloseAll() {
	m.Called()
}

type AccountWriterMock struct {
	mock.Mock
}

var _ account.Writer = (*AccountWriterMock)(nil)

func NewAccountWriterMock(t testingT) *AccountWriterMock {
	m := &AccountWriterMock{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *AccountWriterMock) SaveAccount(ctx context.Context, record account.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}
