package sale

import (
	"testing"
	"time"
)

func entry(st Status, at time.Time) HistoryEntry {
	return HistoryEntry{Status: st, UpdatedBy: "Carlos Gerente", UpdatedAt: at}
}

func TestRegressed(t *testing.T) {
	now := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		status  Status
		history []HistoryEntry
		want    bool
	}{
		{
			name:    "returned after approval",
			status:  StatusInProgress,
			history: []HistoryEntry{entry(StatusInProgress, now), entry(StatusAnalyzed, now), entry(StatusInProgress, now)},
			want:    true,
		},
		{
			name:    "returned after finish",
			status:  StatusInProgress,
			history: []HistoryEntry{entry(StatusInProgress, now), entry(StatusFinished, now), entry(StatusInProgress, now)},
			want:    true,
		},
		{
			name:    "first submission",
			status:  StatusInProgress,
			history: []HistoryEntry{entry(StatusInProgress, now)},
			want:    false,
		},
		{
			name:    "currently analyzed",
			status:  StatusAnalyzed,
			history: []HistoryEntry{entry(StatusInProgress, now), entry(StatusAnalyzed, now)},
			want:    false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Sale{ID: "A1B2C3D4E", Status: tt.status, StatusHistory: tt.history}
			if got := s.Regressed(); got != tt.want {
				t.Fatalf("Regressed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpired(t *testing.T) {
	now := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	if (&Sale{}).Expired(now) {
		t.Fatal("record without expiry must never expire")
	}
	if !(&Sale{ExpiresAt: &past}).Expired(now) {
		t.Fatal("past expiry should be expired")
	}
	if (&Sale{ExpiresAt: &future}).Expired(now) {
		t.Fatal("future expiry should not be expired")
	}
}

func TestCloneDoesNotAlias(t *testing.T) {
	now := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	exp := now.Add(time.Hour)
	orig := Sale{
		ID:            "TMP_AB12C",
		Status:        StatusDraft,
		StatusHistory: []HistoryEntry{entry(StatusDraft, now)},
		ExpiresAt:     &exp,
	}
	cp := orig.Clone()
	cp.StatusHistory[0].Status = StatusFinished
	*cp.ExpiresAt = now

	if orig.StatusHistory[0].Status != StatusDraft {
		t.Fatal("clone aliases history slice")
	}
	if !orig.ExpiresAt.Equal(exp) {
		t.Fatal("clone aliases expiry pointer")
	}
}

func TestCurrentEntry(t *testing.T) {
	var s Sale
	if s.CurrentEntry() != nil {
		t.Fatal("empty history should have no current entry")
	}
	now := time.Now().UTC()
	s.StatusHistory = []HistoryEntry{entry(StatusInProgress, now), entry(StatusAnalyzed, now)}
	if got := s.CurrentEntry(); got == nil || got.Status != StatusAnalyzed {
		t.Fatalf("CurrentEntry() = %+v, want tail ANALISADA entry", got)
	}
}
