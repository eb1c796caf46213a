package mocks

import (
	"context"
	"sync"

	"storefront/domain/shared"
)

// Registration 一次 Register* 调用
type Registration struct {
	Kind        string // new, dirty, removed
	AggregateID string
}

// MockUnitOfWorkFactory wraps a real factory, records every registration and
// can fail the commit. A failing commit rolls back through the wrapped unit of work.
type MockUnitOfWorkFactory struct {
	inner shared.UnitOfWorkFactory

	mu            sync.Mutex
	commitErr     error
	registrations []Registration
	executions    int
}

func NewMockUnitOfWorkFactory(inner shared.UnitOfWorkFactory) *MockUnitOfWorkFactory {
	return &MockUnitOfWorkFactory{inner: inner}
}

// FailCommit makes every following Execute return err after fn succeeds; nil restores commits
func (f *MockUnitOfWorkFactory) FailCommit(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commitErr = err
}

func (f *MockUnitOfWorkFactory) Registrations() []Registration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Registration(nil), f.registrations...)
}

func (f *MockUnitOfWorkFactory) Executions() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.executions
}

func (f *MockUnitOfWorkFactory) New() shared.UnitOfWork {
	return &MockUnitOfWork{factory: f, inner: f.inner.New()}
}

func (f *MockUnitOfWorkFactory) record(kind string, aggregate shared.AggregateRoot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registrations = append(f.registrations, Registration{Kind: kind, AggregateID: aggregate.ID()})
}

// MockUnitOfWork is the unit of work handed out by MockUnitOfWorkFactory
type MockUnitOfWork struct {
	factory *MockUnitOfWorkFactory
	inner   shared.UnitOfWork
}

func (u *MockUnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	u.factory.mu.Lock()
	u.factory.executions++
	commitErr := u.factory.commitErr
	u.factory.mu.Unlock()

	return u.inner.Execute(ctx, func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			return err
		}
		return commitErr
	})
}

func (u *MockUnitOfWork) RegisterNew(aggregate shared.AggregateRoot) {
	u.factory.record("new", aggregate)
	u.inner.RegisterNew(aggregate)
}

func (u *MockUnitOfWork) RegisterDirty(aggregate shared.AggregateRoot) {
	u.factory.record("dirty", aggregate)
	u.inner.RegisterDirty(aggregate)
}

func (u *MockUnitOfWork) RegisterRemoved(aggregate shared.AggregateRoot) {
	u.factory.record("removed", aggregate)
	u.inner.RegisterRemoved(aggregate)
}

// Compile-time check that MockUnitOfWork implements shared.UnitOfWork
var _ shared.UnitOfWork = (*MockUnitOfWork)(nil)
