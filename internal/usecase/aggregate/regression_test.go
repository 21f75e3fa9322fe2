package aggregate

import (
	"context"
	"reflect"
	"testing"
)

func TestTrackerAlertsOncePerID(t *testing.T) {
	var alerted []string
	tr := NewTracker(func(id string) { alerted = append(alerted, id) })

	if fresh := tr.Observe([]string{"S1", "S2"}); !reflect.DeepEqual(fresh, []string{"S1", "S2"}) {
		t.Fatalf("first observation = %v", fresh)
	}
	if fresh := tr.Observe([]string{"S1", "S2"}); fresh != nil {
		t.Fatalf("re-observation must stay silent, got %v", fresh)
	}
	if fresh := tr.Observe([]string{"S2", "S3"}); !reflect.DeepEqual(fresh, []string{"S3"}) {
		t.Fatalf("only the new id may alert, got %v", fresh)
	}
	if !reflect.DeepEqual(alerted, []string{"S1", "S2", "S3"}) {
		t.Fatalf("alerts = %v", alerted)
	}
}

func TestTrackerReset(t *testing.T) {
	tr := NewTracker(nil)
	tr.Observe([]string{"S1"})
	tr.Reset()
	if fresh := tr.Observe([]string{"S1"}); !reflect.DeepEqual(fresh, []string{"S1"}) {
		t.Fatalf("reset must re-arm alerts, got %v", fresh)
	}
}

func TestTrackerNilAlert(t *testing.T) {
	tr := NewTracker(nil)
	if fresh := tr.Observe([]string{"S1"}); !reflect.DeepEqual(fresh, []string{"S1"}) {
		t.Fatalf("observation without an alert func must still record, got %v", fresh)
	}
}

func TestViewFeedsTracker(t *testing.T) {
	v := testView(t, demoPartitions())
	var alerted []string
	tr := NewTracker(func(id string) { alerted = append(alerted, id) })

	for i := 0; i < 3; i++ {
		if _, _, err := v.ManagerQueue(context.Background(), manager, tr); err != nil {
			t.Fatal(err)
		}
	}
	if !reflect.DeepEqual(alerted, []string{"S2B"}) {
		t.Fatalf("repeated polling must alert once, got %v", alerted)
	}
}
