package sale

import "context"

// Repository is the durable sale record store, partitioned by seller id.
// A partition is always read and rewritten in full; there are no patch
// writes. Concurrent writers to the same partition are not reconciled —
// last write wins.
type Repository interface {
	// ListBySeller returns the owning seller's full partition.
	ListBySeller(ctx context.Context, sellerID string) ([]Sale, error)
	// ReplaceBySeller overwrites the seller's partition with records.
	ReplaceBySeller(ctx context.Context, sellerID string, records []Sale) error
	// SellerIDs lists every seller that owns a partition. Aggregation views
	// scan all partitions through this; the cost is linear in seller count.
	SellerIDs(ctx context.Context) ([]string, error)
}
