package scheduler

import "testing"

func TestSchedule_RejectsMalformedExpression(t *testing.T) {
	s := New()
	if err := s.Schedule("broken", "not a cron expr", func() {}); err == nil {
		t.Fatal("expected malformed cron expression to be rejected")
	}
}

func TestSchedule_ReplacesExistingEntry(t *testing.T) {
	s := New()

	if err := s.Schedule("refresh", "*/5 * * * * *", func() {}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	firstID := s.ids["refresh"]

	if err := s.Schedule("refresh", "0 * * * * *", func() {}); err != nil {
		t.Fatalf("re-schedule: %v", err)
	}
	secondID := s.ids["refresh"]

	if firstID == secondID {
		t.Fatal("expected re-scheduling the same name to replace the cron entry")
	}
	if len(s.ids) != 1 {
		t.Fatalf("expected exactly one tracked entry for name 'refresh', got %d", len(s.ids))
	}
}

func TestRemove_NoopWhenNotScheduled(t *testing.T) {
	s := New()
	s.Remove("does-not-exist")
}
