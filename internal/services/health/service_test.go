package health

import (
	"testing"
	"time"
)

func TestStatus(t *testing.T) {
	svc := NewService("skin_disease_model.tflite", "local", 8)
	start := svc.startedAt
	svc.now = func() time.Time { return start.Add(90*time.Second + 400*time.Millisecond) }

	st := svc.Status()
	if !st.OK {
		t.Fatalf("expected ok")
	}
	if st.Uptime != "1m30s" {
		t.Fatalf("unexpected uptime %q", st.Uptime)
	}
	if st.Model != "skin_disease_model.tflite" || st.ObjectStore != "local" || st.Diseases != 8 {
		t.Fatalf("unexpected status %+v", st)
	}
}

func TestStatusWithoutKnowledge(t *testing.T) {
	if NewService("m", "local", 0).Status().OK {
		t.Fatalf("expected not ok without knowledge entries")
	}
}
