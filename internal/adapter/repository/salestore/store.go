// Package salestore keeps durable sale records in the kv store, one JSON
// document per seller partition under "nexus_sales_<sellerId>".
package salestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"nexus-intake/internal/domain/kv"
	"nexus-intake/internal/domain/sale"
)

const keyPrefix = "nexus_sales_"

func Key(sellerID string) string { return keyPrefix + sellerID }

type Store struct {
	kv kv.Store
}

func New(store kv.Store) *Store { return &Store{kv: store} }

var _ sale.Repository = (*Store)(nil)

func (s *Store) ListBySeller(ctx context.Context, sellerID string) ([]sale.Sale, error) {
	raw, err := s.kv.Get(ctx, Key(sellerID))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("salestore: load partition %s: %w", sellerID, err)
	}
	var out []sale.Sale
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("salestore: decode partition %s: %w", sellerID, err)
	}
	return out, nil
}

func (s *Store) ReplaceBySeller(ctx context.Context, sellerID string, records []sale.Sale) error {
	if records == nil {
		records = []sale.Sale{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("salestore: encode partition %s: %w", sellerID, err)
	}
	if err := s.kv.Set(ctx, Key(sellerID), raw); err != nil {
		return fmt.Errorf("salestore: write partition %s: %w", sellerID, err)
	}
	return nil
}

func (s *Store) SellerIDs(ctx context.Context) ([]string, error) {
	keys, err := s.kv.Keys(ctx, keyPrefix)
	if err != nil {
		return nil, fmt.Errorf("salestore: list partitions: %w", err)
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, strings.TrimPrefix(k, keyPrefix))
	}
	return out, nil
}
