package salemock

import (
	"context"

	"nexus-intake/internal/domain/sale"
)

// Repo is a function-backed mock that satisfies sale.Repository.
type Repo struct {
	ListBySellerFn    func(ctx context.Context, sellerID string) ([]sale.Sale, error)
	ReplaceBySellerFn func(ctx context.Context, sellerID string, records []sale.Sale) error
	SellerIDsFn       func(ctx context.Context) ([]string, error)
}

func (m *Repo) ListBySeller(ctx context.Context, sellerID string) ([]sale.Sale, error) {
	if m.ListBySellerFn != nil {
		return m.ListBySellerFn(ctx, sellerID)
	}
	return nil, nil
}

func (m *Repo) ReplaceBySeller(ctx context.Context, sellerID string, records []sale.Sale) error {
	if m.ReplaceBySellerFn != nil {
		return m.ReplaceBySellerFn(ctx, sellerID, records)
	}
	return nil
}

func (m *Repo) SellerIDs(ctx context.Context) ([]string, error) {
	if m.SellerIDsFn != nil {
		return m.SellerIDsFn(ctx)
	}
	return nil, nil
}
