package workflow

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"nexus-intake/internal/clock"
	"nexus-intake/internal/domain/identity"
	"nexus-intake/internal/domain/sale"
	"nexus-intake/internal/usecase/draft"
	"nexus-intake/pkg/id"
)

// MinReturnReason is the minimum trimmed length of a return justification.
const MinReturnReason = 5

// Engine applies workflow transitions on the authoritative sale record
// store. Every mutation is a full partition read-modify-write scoped to the
// owning seller.
type Engine struct {
	sales     sale.Repository
	drafts    *draft.Store
	validator *CustomerValidator
	clk       clock.Clock
	log       *zap.Logger
}

func NewEngine(sales sale.Repository, drafts *draft.Store, clk clock.Clock, log *zap.Logger) *Engine {
	return &Engine{
		sales:     sales,
		drafts:    drafts,
		validator: NewCustomerValidator(),
		clk:       clk,
		log:       log,
	}
}

// SubmitInput promotes a draft (or a direct edit of an existing sale) into
// the record store. DraftID may be empty for a form submitted without ever
// autosaving.
type SubmitInput struct {
	DraftID string
	Data    sale.CustomerData
}

// Submit validates the form and promotes it to EM_ANDAMENTO. The cache entry
// is removed only after the record write succeeds, so a failed write leaves
// the draft available for retry.
func (e *Engine) Submit(ctx context.Context, seller identity.User, in SubmitInput) (*sale.Sale, error) {
	if !seller.Can(identity.CreateSales) {
		return nil, &GuardError{Code: GuardCapability, Message: "actor cannot create sales"}
	}
	if fields := e.validator.Validate(in.Data); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	records, err := e.sales.ListBySeller(ctx, seller.ID)
	if err != nil {
		return nil, err
	}

	// Temporary draft ids never survive promotion; resubmissions of a
	// returned sale keep their id and history.
	finalID := in.DraftID
	if finalID == "" || id.IsDraftID(finalID) {
		finalID = id.NewSaleID()
	}

	var existing *sale.Sale
	for i := range records {
		if records[i].ID == finalID {
			existing = &records[i]
			break
		}
	}
	if existing != nil && existing.Status == sale.StatusFinished {
		return nil, sale.ErrFinished
	}

	now := e.clk.Now()
	promoted := sale.Sale{
		ID:           finalID,
		SellerID:     seller.ID,
		SellerName:   seller.Name,
		CustomerData: in.Data,
		Status:       sale.StatusInProgress,
		CreatedAt:    now,
	}
	if existing != nil {
		promoted.CreatedAt = existing.CreatedAt
		promoted.StatusHistory = append(promoted.StatusHistory, existing.StatusHistory...)
	}
	promoted.StatusHistory = append(promoted.StatusHistory, sale.HistoryEntry{
		Status:    sale.StatusInProgress,
		UpdatedBy: seller.Name,
		UpdatedAt: now,
	})

	var updated []sale.Sale
	if existing != nil {
		updated = make([]sale.Sale, len(records))
		copy(updated, records)
		for i := range updated {
			if updated[i].ID == finalID {
				updated[i] = promoted
			}
		}
	} else {
		updated = append([]sale.Sale{promoted}, records...)
	}

	if err := e.sales.ReplaceBySeller(ctx, seller.ID, updated); err != nil {
		// Draft stays cached; the seller retries without data loss.
		return nil, fmt.Errorf("workflow: promote %s: %w", finalID, err)
	}

	if in.DraftID != "" {
		if err := e.drafts.Delete(ctx, seller.ID, in.DraftID); err != nil {
			// The record is durable but the draft copy lingers; surfacing the
			// error makes the caller retry, which is idempotent.
			e.log.Error("draft removal after promotion failed",
				zap.String("seller_id", seller.ID),
				zap.String("draft_id", in.DraftID),
				zap.Error(err))
			return nil, fmt.Errorf("workflow: clear draft %s: %w", in.DraftID, err)
		}
	}

	e.log.Info("sale submitted",
		zap.String("sale_id", finalID),
		zap.String("seller_id", seller.ID),
		zap.Bool("resubmission", existing != nil))
	return &promoted, nil
}

// Transition moves a sale to target on behalf of actor. The sale lives in
// the owning seller's partition, addressed by sellerID regardless of who the
// actor is. Rejections perform no mutation.
func (e *Engine) Transition(ctx context.Context, actor identity.User, sellerID, saleID string, target sale.Status, reason string) (*sale.Sale, error) {
	if !actor.Can(identity.ApproveSales) {
		return nil, &GuardError{Code: GuardCapability, Message: "actor cannot approve sales"}
	}
	if !target.Valid() || target == sale.StatusDraft {
		return nil, &GuardError{Code: GuardTransition, Message: fmt.Sprintf("unknown target status %q", target)}
	}

	records, err := e.sales.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range records {
		if records[i].ID == saleID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, sale.ErrNotFound
	}

	current := records[idx].Status
	isReturn := target == sale.StatusInProgress
	trimmed := strings.TrimSpace(reason)

	switch {
	case isReturn:
		// Every return — including the InProgress resubmission-request edge —
		// needs a usable justification.
		if len(trimmed) < MinReturnReason {
			return nil, &GuardError{Code: GuardReason, Message: "return justification must have at least 5 characters"}
		}
		if current != sale.StatusInProgress && current != sale.StatusAnalyzed && current != sale.StatusFinished {
			return nil, &GuardError{Code: GuardTransition, Message: fmt.Sprintf("cannot return a sale from %s", current)}
		}
	case target == sale.StatusAnalyzed:
		if current != sale.StatusInProgress {
			return nil, &GuardError{Code: GuardTransition, Message: fmt.Sprintf("cannot approve a sale from %s", current)}
		}
	case target == sale.StatusFinished:
		// Direct finalize from EM_ANDAMENTO is allowed.
		if current != sale.StatusInProgress && current != sale.StatusAnalyzed {
			return nil, &GuardError{Code: GuardTransition, Message: fmt.Sprintf("cannot finalize a sale from %s", current)}
		}
	}

	regression := isReturn && (current == sale.StatusAnalyzed || current == sale.StatusFinished)

	mutated := records[idx].Clone()
	entry := sale.HistoryEntry{
		Status:    target,
		UpdatedBy: actor.Name,
		UpdatedAt: e.clk.Now(),
	}
	if regression {
		entry.Reason = trimmed
	}
	mutated.Status = target
	mutated.StatusHistory = append(mutated.StatusHistory, entry)
	if isReturn {
		mutated.ReturnReason = trimmed
	}

	updated := make([]sale.Sale, len(records))
	copy(updated, records)
	updated[idx] = mutated

	if err := e.sales.ReplaceBySeller(ctx, sellerID, updated); err != nil {
		return nil, fmt.Errorf("workflow: transition %s: %w", saleID, err)
	}

	e.log.Info("sale status updated",
		zap.String("sale_id", saleID),
		zap.String("seller_id", sellerID),
		zap.String("from", string(current)),
		zap.String("to", string(target)),
		zap.Bool("regression", regression))
	return &mutated, nil
}
