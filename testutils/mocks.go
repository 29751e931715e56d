package testutils

import (
	"reflect"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/golang/mock/gomock"

	"github.com/skip-mev/sealed-auction/x/sealedauction/types"
)

type MockPermissionKeeper struct {
	ctrl     *gomock.Controller
	recorder *MockPermissionKeeperMockRecorder
}

type MockPermissionKeeperMockRecorder struct {
	mock *MockPermissionKeeper
}

func NewMockPermissionKeeper(ctrl *gomock.Controller) *MockPermissionKeeper {
	mock := &MockPermissionKeeper{ctrl: ctrl}
	mock.recorder = &MockPermissionKeeperMockRecorder{mock}
	return mock
}

func (m *MockPermissionKeeper) EXPECT() *MockPermissionKeeperMockRecorder {
	return m.recorder
}

func (m *MockPermissionKeeper) CreatePermission(ctx sdk.Context, owner string, signerSeeds [][]byte, permissioned types.Address, members []types.Member) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreatePermission", ctx, owner, signerSeeds, permissioned, members)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockPermissionKeeperMockRecorder) CreatePermission(ctx, owner, signerSeeds, permissioned, members interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreatePermission", reflect.TypeOf((*MockPermissionKeeper)(nil).CreatePermission), ctx, owner, signerSeeds, permissioned, members)
}

type MockDelegationKeeper struct {
	ctrl     *gomock.Controller
	recorder *MockDelegationKeeperMockRecorder
}

type MockDelegationKeeperMockRecorder struct {
	mock *MockDelegationKeeper
}

func NewMockDelegationKeeper(ctrl *gomock.Controller) *MockDelegationKeeper {
	mock := &MockDelegationKeeper{ctrl: ctrl}
	mock.recorder = &MockDelegationKeeperMockRecorder{mock}
	return mock
}

func (m *MockDelegationKeeper) EXPECT() *MockDelegationKeeperMockRecorder {
	return m.recorder
}

func (m *MockDelegationKeeper) Delegate(ctx sdk.Context, owner string, record types.Address, seeds [][]byte, cfg types.DelegateConfig) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Delegate", ctx, owner, record, seeds, cfg)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockDelegationKeeperMockRecorder) Delegate(ctx, owner, record, seeds, cfg interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Delegate", reflect.TypeOf((*MockDelegationKeeper)(nil).Delegate), ctx, owner, record, seeds, cfg)
}

func (m *MockDelegationKeeper) CommitAndUndelegate(ctx sdk.Context, records []types.Address, payer types.Address) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CommitAndUndelegate", ctx, records, payer)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockDelegationKeeperMockRecorder) CommitAndUndelegate(ctx, records, payer interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CommitAndUndelegate", reflect.TypeOf((*MockDelegationKeeper)(nil).CommitAndUndelegate), ctx, records, payer)
}

func (m *MockDelegationKeeper) IsDelegated(ctx sdk.Context, record types.Address) bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "IsDelegated", ctx, record)
	ret0, _ := ret[0].(bool)
	return ret0
}

func (mr *MockDelegationKeeperMockRecorder) IsDelegated(ctx, record interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "IsDelegated", reflect.TypeOf((*MockDelegationKeeper)(nil).IsDelegated), ctx, record)
}
