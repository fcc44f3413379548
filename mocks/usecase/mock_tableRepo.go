package usecase

import (
	"context"

	"github.com/rocketscienceinc/tictactoe-qlearning/internal/agent"
	"github.com/stretchr/testify/mock"
)

// MocktableRepo is a mock for the q-table repository the learning use case depends on.
type MocktableRepo struct {
	mock.Mock
}

type MocktableRepo_Expecter struct {
	mock *mock.Mock
}

func (_m *MocktableRepo) EXPECT() *MocktableRepo_Expecter {
	return &MocktableRepo_Expecter{mock: &_m.Mock}
}

func (_m *MocktableRepo) Save(ctx context.Context, name string, table *agent.QTable) error {
	ret := _m.Called(ctx, name, table)

	if rf, ok := ret.Get(0).(func(context.Context, string, *agent.QTable) error); ok {
		return rf(ctx, name, table)
	}

	return ret.Error(0)
}

type MocktableRepo_Save_Call struct {
	*mock.Call
}

func (_e *MocktableRepo_Expecter) Save(ctx interface{}, name interface{}, table interface{}) *MocktableRepo_Save_Call {
	return &MocktableRepo_Save_Call{Call: _e.mock.On("Save", ctx, name, table)}
}

func (_c *MocktableRepo_Save_Call) Return(err error) *MocktableRepo_Save_Call {
	_c.Call.Return(err)
	return _c
}

func (_c *MocktableRepo_Save_Call) Once() *MocktableRepo_Save_Call {
	_c.Call.Once()
	return _c
}

func (_m *MocktableRepo) Load(ctx context.Context, name string) (*agent.QTable, error) {
	ret := _m.Called(ctx, name)

	if rf, ok := ret.Get(0).(func(context.Context, string) (*agent.QTable, error)); ok {
		return rf(ctx, name)
	}

	var table *agent.QTable
	if ret.Get(0) != nil {
		table = ret.Get(0).(*agent.QTable)
	}

	return table, ret.Error(1)
}

type MocktableRepo_Load_Call struct {
	*mock.Call
}

func (_e *MocktableRepo_Expecter) Load(ctx interface{}, name interface{}) *MocktableRepo_Load_Call {
	return &MocktableRepo_Load_Call{Call: _e.mock.On("Load", ctx, name)}
}

func (_c *MocktableRepo_Load_Call) Return(table *agent.QTable, err error) *MocktableRepo_Load_Call {
	_c.Call.Return(table, err)
	return _c
}

func (_c *MocktableRepo_Load_Call) Once() *MocktableRepo_Load_Call {
	_c.Call.Once()
	return _c
}

func (_m *MocktableRepo) Exists(ctx context.Context, name string) (bool, error) {
	ret := _m.Called(ctx, name)

	if rf, ok := ret.Get(0).(func(context.Context, string) (bool, error)); ok {
		return rf(ctx, name)
	}

	return ret.Bool(0), ret.Error(1)
}

type MocktableRepo_Exists_Call struct {
	*mock.Call
}

func (_e *MocktableRepo_Expecter) Exists(ctx interface{}, name interface{}) *MocktableRepo_Exists_Call {
	return &MocktableRepo_Exists_Call{Call: _e.mock.On("Exists", ctx, name)}
}

func (_c *MocktableRepo_Exists_Call) Return(exists bool, err error) *MocktableRepo_Exists_Call {
	_c.Call.Return(exists, err)
	return _c
}

func (_c *MocktableRepo_Exists_Call) Once() *MocktableRepo_Exists_Call {
	_c.Call.Once()
	return _c
}

// NewMocktableRepo registers AssertExpectations on cleanup.
func NewMocktableRepo(t interface {
	mock.TestingT
	Cleanup(func())
}) *MocktableRepo {
	m := &MocktableRepo{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
