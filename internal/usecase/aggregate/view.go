// Package aggregate builds cross-seller projections by scanning every
// per-user partition. All statistics are recomputed from scratch per load
// and never persisted; the view is read-only over the underlying stores.
package aggregate

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"nexus-intake/internal/clock"
	"nexus-intake/internal/domain/identity"
	"nexus-intake/internal/domain/sale"
)

// ErrScopeDenied rejects a view the actor's role cannot open.
var ErrScopeDenied = errors.New("aggregate: scope denied")

// TrendDays is the length of the daily trend window.
const TrendDays = 7

// TopSellerLimit caps the finisher ranking.
const TopSellerLimit = 5

type TrendPoint struct {
	Day   string `json:"day"` // calendar day, YYYY-MM-DD
	Count int    `json:"count"`
}

type SellerRank struct {
	SellerID   string `json:"sellerId"`
	SellerName string `json:"sellerName"`
	Finished   int    `json:"finished"`
}

type Stats struct {
	Total      int          `json:"total"`
	InProgress int          `json:"inProgress"`
	Analyzed   int          `json:"analyzed"`
	Finished   int          `json:"finished"`
	Conversion float64      `json:"conversion"` // finished/total, percent
	Trend      []TrendPoint `json:"trend"`
	TopSellers []SellerRank `json:"topSellers,omitempty"`
}

type View struct {
	sales sale.Repository
	clk   clock.Clock
	log   *zap.Logger
}

func NewView(sales sale.Repository, clk clock.Clock, log *zap.Logger) *View {
	return &View{sales: sales, clk: clk, log: log}
}

// scan concatenates the partitions visible to actor. Sellers see only their
// own partition; holders of VIEW_ALL_SALES see every partition. Cached
// drafts never appear here — the record store holds none.
func (v *View) scan(ctx context.Context, actor identity.User) ([]sale.Sale, error) {
	if !actor.Can(identity.ViewAllSales) {
		if !actor.Can(identity.ViewOwnSales) {
			return nil, ErrScopeDenied
		}
		return v.sales.ListBySeller(ctx, actor.ID)
	}

	sellerIDs, err := v.sales.SellerIDs(ctx)
	if err != nil {
		return nil, err
	}
	var all []sale.Sale
	for _, sid := range sellerIDs {
		records, err := v.sales.ListBySeller(ctx, sid)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
	}
	return all, nil
}

func sortByCreatedDesc(records []sale.Sale) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
}

// ListSales returns the actor-scoped record set, newest first. An optional
// sellerID narrows a view-all scope to one seller's records.
func (v *View) ListSales(ctx context.Context, actor identity.User, sellerID string) ([]sale.Sale, error) {
	records, err := v.scan(ctx, actor)
	if err != nil {
		return nil, err
	}
	out := make([]sale.Sale, 0, len(records))
	for _, r := range records {
		if sellerID != "" && r.SellerID != sellerID {
			continue
		}
		out = append(out, r)
	}
	sortByCreatedDesc(out)
	return out, nil
}

// ManagerQueue returns the review queue: submitted sales that are neither
// awaiting a seller correction nor finished. Regression detection runs over
// the whole scanned set, and tracker fires one alert per newly regressed id.
func (v *View) ManagerQueue(ctx context.Context, actor identity.User, tracker *Tracker) ([]sale.Sale, []string, error) {
	if !actor.Can(identity.ViewAllSales) {
		return nil, nil, ErrScopeDenied
	}
	records, err := v.scan(ctx, actor)
	if err != nil {
		return nil, nil, err
	}

	var regressed []string
	for _, r := range records {
		if r.Regressed() {
			regressed = append(regressed, r.ID)
		}
	}
	if tracker != nil {
		if fresh := tracker.Observe(regressed); len(fresh) > 0 {
			v.log.Warn("sales regressed after approval", zap.Strings("sale_ids", fresh))
		}
	}

	queue := make([]sale.Sale, 0, len(records))
	for _, r := range records {
		if r.Status == sale.StatusDraft || r.Status == sale.StatusFinished || r.ReturnReason != "" {
			continue
		}
		queue = append(queue, r)
	}
	sortByCreatedDesc(queue)
	return queue, regressed, nil
}

// Aggregate recomputes the KPI set over the actor's scope.
func (v *View) Aggregate(ctx context.Context, actor identity.User) (Stats, error) {
	records, err := v.scan(ctx, actor)
	if err != nil {
		return Stats{}, err
	}

	var st Stats
	finishersByID := map[string]*SellerRank{}
	for _, r := range records {
		if r.Status == sale.StatusDraft {
			continue
		}
		st.Total++
		switch r.Status {
		case sale.StatusInProgress:
			st.InProgress++
		case sale.StatusAnalyzed:
			st.Analyzed++
		case sale.StatusFinished:
			st.Finished++
		}
		rank, ok := finishersByID[r.SellerID]
		if !ok {
			rank = &SellerRank{SellerID: r.SellerID, SellerName: r.SellerName}
			finishersByID[r.SellerID] = rank
		}
		if r.Status == sale.StatusFinished {
			rank.Finished++
		}
	}
	if st.Total > 0 {
		st.Conversion = float64(st.Finished) / float64(st.Total) * 100
	}
	st.Trend = v.trend(records)

	if actor.Can(identity.ViewAllSales) {
		ranks := make([]SellerRank, 0, len(finishersByID))
		for _, r := range finishersByID {
			ranks = append(ranks, *r)
		}
		sort.Slice(ranks, func(i, j int) bool {
			if ranks[i].Finished != ranks[j].Finished {
				return ranks[i].Finished > ranks[j].Finished
			}
			return ranks[i].SellerID < ranks[j].SellerID
		})
		if len(ranks) > TopSellerLimit {
			ranks = ranks[:TopSellerLimit]
		}
		st.TopSellers = ranks
	}
	return st, nil
}

// trend buckets submissions by calendar day over the last TrendDays days,
// oldest first.
func (v *View) trend(records []sale.Sale) []TrendPoint {
	now := v.clk.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	counts := map[string]int{}
	for _, r := range records {
		if r.Status == sale.StatusDraft {
			continue
		}
		counts[r.CreatedAt.UTC().Format("2006-01-02")]++
	}
	out := make([]TrendPoint, 0, TrendDays)
	for i := TrendDays - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i).Format("2006-01-02")
		out = append(out, TrendPoint{Day: day, Count: counts[day]})
	}
	return out
}
