// Package sync pushes locally persisted sale records to the remote store,
// best effort, tolerating partial failure.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"nexus-intake/internal/domain/remote"
	"nexus-intake/internal/domain/sale"
)

// RemoteTimeout bounds each record's remote round-trip so an unreachable
// store degrades to a skipped batch instead of a hung one.
const RemoteTimeout = 5 * time.Second

// ErrInFlight is returned when a sync is requested while a previous run is
// still outstanding; the loops are single-flight by design.
var ErrInFlight = errors.New("sync: run already in flight")

// Report is the aggregate outcome of one batch. Failures are retried on the
// next scheduled run, not immediately.
type Report struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

type Synchronizer struct {
	sales   sale.Repository
	remote  remote.Store
	log     *zap.Logger
	timeout time.Duration

	mu sync.Mutex
}

func New(sales sale.Repository, rs remote.Store, log *zap.Logger) *Synchronizer {
	return &Synchronizer{sales: sales, remote: rs, log: log, timeout: RemoteTimeout}
}

// WithTimeout overrides the per-record remote deadline. Call before any run
// starts.
func (s *Synchronizer) WithTimeout(d time.Duration) *Synchronizer {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// SyncSeller pushes one seller's partition. Per-item failures are logged and
// counted; they never abort the rest of the batch.
func (s *Synchronizer) SyncSeller(ctx context.Context, sellerID string) (Report, error) {
	if !s.mu.TryLock() {
		return Report{}, ErrInFlight
	}
	defer s.mu.Unlock()
	return s.pushSeller(ctx, sellerID)
}

// SyncAll pushes every partition; used by the periodic loop.
func (s *Synchronizer) SyncAll(ctx context.Context) (Report, error) {
	if !s.mu.TryLock() {
		return Report{}, ErrInFlight
	}
	defer s.mu.Unlock()

	sellerIDs, err := s.sales.SellerIDs(ctx)
	if err != nil {
		return Report{}, err
	}
	var total Report
	for _, sid := range sellerIDs {
		rep, err := s.pushSeller(ctx, sid)
		total.Succeeded += rep.Succeeded
		total.Failed += rep.Failed
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (s *Synchronizer) pushSeller(ctx context.Context, sellerID string) (Report, error) {
	records, err := s.sales.ListBySeller(ctx, sellerID)
	if err != nil {
		return Report{}, err
	}
	var rep Report
	for _, r := range records {
		if err := s.pushOne(ctx, r); err != nil {
			rep.Failed++
			s.log.Warn("sync item failed",
				zap.String("sale_id", r.ID),
				zap.String("seller_id", sellerID),
				zap.Error(err))
			continue
		}
		rep.Succeeded++
	}
	if rep.Failed > 0 {
		s.log.Info("sync finished with partial failures",
			zap.String("seller_id", sellerID),
			zap.Int("succeeded", rep.Succeeded),
			zap.Int("failed", rep.Failed))
	}
	return rep, nil
}

// pushOne upserts the normalized customer projection by its natural key
// (email), then the sale projection referencing the resulting identity.
func (s *Synchronizer) pushOne(ctx context.Context, r sale.Sale) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	customerID, err := s.remote.UpsertCustomer(ctx, customerRecord(r))
	if err != nil {
		return err
	}
	rec, err := saleRecord(r, customerID)
	if err != nil {
		return err
	}
	return s.remote.UpsertSale(ctx, rec)
}

func customerRecord(r sale.Sale) remote.CustomerRecord {
	c := r.CustomerData
	return remote.CustomerRecord{
		Nome:           c.Nome,
		Email:          c.Email,
		Telefone:       c.Contato,
		CPF:            c.CPF,
		DataNascimento: c.DataNascimento,
		NomeMae:        c.NomeMae,
		Rua:            c.Rua,
		Numero:         c.Numero,
		Complemento:    c.Complemento,
		Bairro:         c.Bairro,
		Cidade:         c.Cidade,
		Estado:         c.Estado,
		CEP:            c.CEP,
		Plano:          c.Plano,
		VencimentoDia:  c.VencimentoDia,
		Anotacoes:      c.Anotacoes,

		AudioURL:                     c.AudioURL,
		FotoFrenteURL:                c.FotoFrenteURL,
		FotoVersoURL:                 c.FotoVersoURL,
		FotoCTPSURL:                  c.FotoCTPSURL,
		FotoComprovanteResidenciaURL: c.FotoComprovanteResidenciaURL,

		DataCadastro: r.CreatedAt,
	}
}

func saleRecord(r sale.Sale, customerID string) (remote.SaleRecord, error) {
	history, err := json.Marshal(r.StatusHistory)
	if err != nil {
		return remote.SaleRecord{}, err
	}
	return remote.SaleRecord{
		ID:            r.ID,
		CustomerID:    customerID,
		SellerID:      r.SellerID,
		SellerName:    r.SellerName,
		Status:        string(r.Status),
		StatusHistory: history,
		ReturnReason:  r.ReturnReason,
		CreatedAt:     r.CreatedAt,
	}, nil
}
