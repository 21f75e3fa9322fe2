package workflow

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"nexus-intake/internal/adapter/repository/kvmem"
	"nexus-intake/internal/clock"
	"nexus-intake/internal/domain/identity"
	"nexus-intake/internal/domain/sale"
	"nexus-intake/internal/testutil/salemock"
	"nexus-intake/internal/usecase/draft"
	"nexus-intake/pkg/id"
)

var (
	seller  = identity.User{ID: "seller-1", Name: "Ana Souza", Role: identity.RoleSeller}
	manager = identity.User{ID: "mgr-1", Name: "Bruno Lima", Role: identity.RoleManager}
	t0      = time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
)

// memRepo keeps partitions in a plain map so tests can inspect the outcome of
// full-partition rewrites.
func memRepo(partitions map[string][]sale.Sale) *salemock.Repo {
	return &salemock.Repo{
		ListBySellerFn: func(_ context.Context, sid string) ([]sale.Sale, error) {
			return partitions[sid], nil
		},
		ReplaceBySellerFn: func(_ context.Context, sid string, records []sale.Sale) error {
			partitions[sid] = records
			return nil
		},
		SellerIDsFn: func(context.Context) ([]string, error) {
			out := make([]string, 0, len(partitions))
			for sid := range partitions {
				out = append(out, sid)
			}
			return out, nil
		},
	}
}

func newTestEngine(t *testing.T, repo sale.Repository) (*Engine, *draft.Store) {
	t.Helper()
	clk := clock.NewFixed(t0)
	drafts := draft.NewStore(kvmem.New(), clk, zaptest.NewLogger(t))
	return NewEngine(repo, drafts, clk, zaptest.NewLogger(t)), drafts
}

func TestSubmitGuardsAndValidation(t *testing.T) {
	partitions := map[string][]sale.Sale{}
	eng, _ := newTestEngine(t, memRepo(partitions))
	ctx := context.Background()

	t.Run("manager cannot create sales", func(t *testing.T) {
		_, err := eng.Submit(ctx, manager, SubmitInput{Data: validData()})
		var ge *GuardError
		if !errors.As(err, &ge) || ge.Code != GuardCapability {
			t.Fatalf("want capability guard, got %v", err)
		}
	})

	t.Run("invalid form rejected without mutation", func(t *testing.T) {
		data := validData()
		data.CPF = "123"
		_, err := eng.Submit(ctx, seller, SubmitInput{Data: data})
		var ve *ValidationError
		if !errors.As(err, &ve) || !ve.Cites("cpf") {
			t.Fatalf("want validation error citing cpf, got %v", err)
		}
		if len(partitions[seller.ID]) != 0 {
			t.Fatal("rejected submission must not write records")
		}
	})
}

func TestSubmitPromotesDraft(t *testing.T) {
	partitions := map[string][]sale.Sale{}
	eng, drafts := newTestEngine(t, memRepo(partitions))
	ctx := context.Background()

	draftID := id.NewDraftID()
	cached := sale.Sale{
		ID:           draftID,
		SellerID:     seller.ID,
		SellerName:   seller.Name,
		CustomerData: validData(),
		Status:       sale.StatusDraft,
	}
	if err := drafts.Save(ctx, seller.ID, cached); err != nil {
		t.Fatal(err)
	}

	got, err := eng.Submit(ctx, seller, SubmitInput{DraftID: draftID, Data: validData()})
	if err != nil {
		t.Fatal(err)
	}

	if id.IsDraftID(got.ID) || len(got.ID) != 9 {
		t.Fatalf("temporary id must be replaced by a 9-char sale id, got %q", got.ID)
	}
	if got.Status != sale.StatusInProgress {
		t.Fatalf("promoted status = %s, want %s", got.Status, sale.StatusInProgress)
	}
	if len(got.StatusHistory) != 1 || got.StatusHistory[0].Status != sale.StatusInProgress {
		t.Fatalf("want single EM_ANDAMENTO history entry, got %+v", got.StatusHistory)
	}
	if !got.CreatedAt.Equal(t0) {
		t.Fatalf("createdAt = %v, want %v", got.CreatedAt, t0)
	}

	if len(partitions[seller.ID]) != 1 || partitions[seller.ID][0].ID != got.ID {
		t.Fatalf("record store partition = %+v", partitions[seller.ID])
	}

	left, err := drafts.List(ctx, seller.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 0 {
		t.Fatalf("draft must be removed after a durable promotion, still have %+v", left)
	}
}

func TestSubmitResubmissionKeepsIdentityAndClearsReturn(t *testing.T) {
	returned := sale.Sale{
		ID:           "ABC123XYZ",
		SellerID:     seller.ID,
		SellerName:   seller.Name,
		CustomerData: validData(),
		Status:       sale.StatusInProgress,
		ReturnReason: "missing proof of address",
		CreatedAt:    t0.Add(-48 * time.Hour),
		StatusHistory: []sale.HistoryEntry{
			{Status: sale.StatusInProgress, UpdatedBy: seller.Name, UpdatedAt: t0.Add(-48 * time.Hour)},
			{Status: sale.StatusAnalyzed, UpdatedBy: manager.Name, UpdatedAt: t0.Add(-24 * time.Hour)},
			{Status: sale.StatusInProgress, UpdatedBy: manager.Name, UpdatedAt: t0.Add(-12 * time.Hour), Reason: "missing proof of address"},
		},
	}
	partitions := map[string][]sale.Sale{seller.ID: {returned}}
	eng, _ := newTestEngine(t, memRepo(partitions))

	got, err := eng.Submit(context.Background(), seller, SubmitInput{DraftID: "ABC123XYZ", Data: validData()})
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "ABC123XYZ" {
		t.Fatalf("resubmission must keep the sale id, got %q", got.ID)
	}
	if got.ReturnReason != "" {
		t.Fatalf("resubmission must clear the return reason, got %q", got.ReturnReason)
	}
	if !got.CreatedAt.Equal(returned.CreatedAt) {
		t.Fatal("resubmission must preserve the original createdAt")
	}
	if len(got.StatusHistory) != 4 {
		t.Fatalf("history must be extended, got %d entries", len(got.StatusHistory))
	}
	if len(partitions[seller.ID]) != 1 {
		t.Fatalf("resubmission must replace in place, partition = %+v", partitions[seller.ID])
	}
}

func TestSubmitFinishedIsImmutable(t *testing.T) {
	partitions := map[string][]sale.Sale{seller.ID: {{
		ID:       "DONE00001",
		SellerID: seller.ID,
		Status:   sale.StatusFinished,
	}}}
	eng, _ := newTestEngine(t, memRepo(partitions))

	_, err := eng.Submit(context.Background(), seller, SubmitInput{DraftID: "DONE00001", Data: validData()})
	if !errors.Is(err, sale.ErrFinished) {
		t.Fatalf("want ErrFinished, got %v", err)
	}
}

func TestSubmitWriteFailureKeepsDraft(t *testing.T) {
	repo := &salemock.Repo{
		ReplaceBySellerFn: func(context.Context, string, []sale.Sale) error {
			return errors.New("partition unavailable")
		},
	}
	eng, drafts := newTestEngine(t, repo)
	ctx := context.Background()

	draftID := id.NewDraftID()
	if err := drafts.Save(ctx, seller.ID, sale.Sale{ID: draftID, SellerID: seller.ID, CustomerData: validData()}); err != nil {
		t.Fatal(err)
	}

	if _, err := eng.Submit(ctx, seller, SubmitInput{DraftID: draftID, Data: validData()}); err == nil {
		t.Fatal("want error from failed record write")
	}
	left, _ := drafts.List(ctx, seller.ID)
	if len(left) != 1 {
		t.Fatal("draft must survive a failed promotion")
	}
}

func TestTransitionTable(t *testing.T) {
	mk := func(status sale.Status, history ...sale.Status) sale.Sale {
		s := sale.Sale{ID: "SALE00001", SellerID: seller.ID, SellerName: seller.Name, Status: status, CreatedAt: t0}
		for _, st := range history {
			s.StatusHistory = append(s.StatusHistory, sale.HistoryEntry{Status: st, UpdatedAt: t0})
		}
		return s
	}

	cases := []struct {
		name    string
		start   sale.Sale
		target  sale.Status
		reason  string
		wantErr GuardCode
	}{
		{"approve in progress", mk(sale.StatusInProgress, sale.StatusInProgress), sale.StatusAnalyzed, "", ""},
		{"approve analyzed rejected", mk(sale.StatusAnalyzed), sale.StatusAnalyzed, "", GuardTransition},
		{"approve finished rejected", mk(sale.StatusFinished), sale.StatusAnalyzed, "", GuardTransition},
		{"finalize analyzed", mk(sale.StatusAnalyzed), sale.StatusFinished, "", ""},
		{"finalize in progress directly", mk(sale.StatusInProgress), sale.StatusFinished, "", ""},
		{"finalize finished rejected", mk(sale.StatusFinished), sale.StatusFinished, "", GuardTransition},
		{"return analyzed with reason", mk(sale.StatusAnalyzed, sale.StatusInProgress, sale.StatusAnalyzed), sale.StatusInProgress, "documentation is incomplete", ""},
		{"return finished with reason", mk(sale.StatusFinished), sale.StatusInProgress, "billing dispute reopened", ""},
		{"return reason too short", mk(sale.StatusAnalyzed), sale.StatusInProgress, "nope", GuardReason},
		{"return reason only whitespace", mk(sale.StatusAnalyzed), sale.StatusInProgress, "        ", GuardReason},
		{"draft target rejected", mk(sale.StatusAnalyzed), sale.StatusDraft, "", GuardTransition},
		{"unknown target rejected", mk(sale.StatusAnalyzed), sale.Status("APROVADA"), "", GuardTransition},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			partitions := map[string][]sale.Sale{seller.ID: {tc.start}}
			eng, _ := newTestEngine(t, memRepo(partitions))

			got, err := eng.Transition(context.Background(), manager, seller.ID, tc.start.ID, tc.target, tc.reason)
			if tc.wantErr != "" {
				var ge *GuardError
				if !errors.As(err, &ge) || ge.Code != tc.wantErr {
					t.Fatalf("want guard %s, got %v", tc.wantErr, err)
				}
				if partitions[seller.ID][0].Status != tc.start.Status {
					t.Fatal("rejected transition must not mutate the record")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got.Status != tc.target {
				t.Fatalf("status = %s, want %s", got.Status, tc.target)
			}
			if tail := got.CurrentEntry(); tail == nil || tail.Status != tc.target {
				t.Fatalf("history tail must match the new status, got %+v", tail)
			}
			if tc.target == sale.StatusInProgress && got.ReturnReason != strings.TrimSpace(tc.reason) {
				t.Fatalf("return reason = %q", got.ReturnReason)
			}
		})
	}
}

func TestTransitionRegressionCarriesReasonInHistory(t *testing.T) {
	start := sale.Sale{
		ID: "SALE00002", SellerID: seller.ID, Status: sale.StatusAnalyzed,
		StatusHistory: []sale.HistoryEntry{
			{Status: sale.StatusInProgress, UpdatedAt: t0},
			{Status: sale.StatusAnalyzed, UpdatedAt: t0},
		},
	}
	partitions := map[string][]sale.Sale{seller.ID: {start}}
	eng, _ := newTestEngine(t, memRepo(partitions))

	got, err := eng.Transition(context.Background(), manager, seller.ID, start.ID, sale.StatusInProgress, "  address proof expired  ")
	if err != nil {
		t.Fatal(err)
	}
	tail := got.CurrentEntry()
	if tail.Reason != "address proof expired" {
		t.Fatalf("regression entry must carry the trimmed reason, got %q", tail.Reason)
	}
	if !got.Regressed() {
		t.Fatal("returned sale must be flagged as regressed")
	}
}

func TestTransitionSellerCannotApprove(t *testing.T) {
	eng, _ := newTestEngine(t, memRepo(map[string][]sale.Sale{}))
	_, err := eng.Transition(context.Background(), seller, seller.ID, "SALE00001", sale.StatusAnalyzed, "")
	var ge *GuardError
	if !errors.As(err, &ge) || ge.Code != GuardCapability {
		t.Fatalf("want capability guard, got %v", err)
	}
}

func TestTransitionUnknownSale(t *testing.T) {
	eng, _ := newTestEngine(t, memRepo(map[string][]sale.Sale{}))
	_, err := eng.Transition(context.Background(), manager, seller.ID, "MISSING01", sale.StatusAnalyzed, "")
	if !errors.Is(err, sale.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
