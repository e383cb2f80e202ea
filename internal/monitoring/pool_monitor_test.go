package monitoring

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestNewPoolMonitorRejectsBadSchedule(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	if _, err := NewPoolMonitor(db, "not a cron expr"); err == nil {
		t.Fatal("expected an error for an invalid schedule")
	}
}

func TestRunStop(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	pm, err := NewPoolMonitor(db, "@every 1h")
	if err != nil {
		t.Fatalf("NewPoolMonitor: %v", err)
	}

	stopped := make(chan struct{})
	go func() {
		pm.Run()
		close(stopped)
	}()

	pm.Stop()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
}
