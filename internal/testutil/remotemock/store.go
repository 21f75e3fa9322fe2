package remotemock

import (
	"context"

	"nexus-intake/internal/domain/remote"
)

// Store is a function-backed mock that satisfies remote.Store.
type Store struct {
	UpsertCustomerFn func(ctx context.Context, c remote.CustomerRecord) (string, error)
	UpsertSaleFn     func(ctx context.Context, s remote.SaleRecord) error
	PingFn           func(ctx context.Context) error
}

func (m *Store) UpsertCustomer(ctx context.Context, c remote.CustomerRecord) (string, error) {
	if m.UpsertCustomerFn != nil {
		return m.UpsertCustomerFn(ctx, c)
	}
	return "customer-1", nil
}

func (m *Store) UpsertSale(ctx context.Context, s remote.SaleRecord) error {
	if m.UpsertSaleFn != nil {
		return m.UpsertSaleFn(ctx, s)
	}
	return nil
}

func (m *Store) Ping(ctx context.Context) error {
	if m.PingFn != nil {
		return m.PingFn(ctx)
	}
	return nil
}
