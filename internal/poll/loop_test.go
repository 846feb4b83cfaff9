package poll

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/avkuznetsov/booking-relay/internal/mail"
)

// fakeSessions hands out zero-value sessions and can fail every Nth
// connect.
type fakeSessions struct {
	mu     sync.Mutex
	calls  int
	failOn map[int]error
}

func (f *fakeSessions) WithSession(_ context.Context, fn func(*mail.Session) error) error {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.mu.Unlock()

	if err := f.failOn[call]; err != nil {
		return err
	}
	return fn(&mail.Session{})
}

func (f *fakeSessions) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func waitForPasses(t *testing.T, f *fakeSessions, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if f.callCount() >= want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("saw %d passes, want at least %d", f.callCount(), want)
}

func TestRunScansFoldersInOrder(t *testing.T) {
	sessions := &fakeSessions{}
	var mu sync.Mutex
	var scanned []string

	loop := &Loop{
		Sessions: sessions,
		Scan: func(_ context.Context, _ mail.Mailbox, folder string) {
			mu.Lock()
			scanned = append(scanned, folder)
			mu.Unlock()
		},
		Folders:  []string{"INBOX", "[Gmail]/Спам"},
		Interval: time.Millisecond,
		Log:      zap.NewNop(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	waitForPasses(t, sessions, 1)
	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	if len(scanned) < 2 || scanned[0] != "INBOX" || scanned[1] != "[Gmail]/Спам" {
		t.Errorf("scan order = %v, want INBOX before spam", scanned)
	}
}

func TestRunContinuesAfterSessionFailure(t *testing.T) {
	sessions := &fakeSessions{
		failOn: map[int]error{1: errors.New("connection refused")},
	}

	loop := &Loop{
		Sessions: sessions,
		Scan:     func(context.Context, mail.Mailbox, string) {},
		Folders:  []string{"INBOX"},
		Interval: time.Millisecond,
		Log:      zap.NewNop(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	// The failed first pass must be followed by more passes.
	waitForPasses(t, sessions, 3)
	cancel()
	<-done
}

func TestRunRecoversFromScanPanic(t *testing.T) {
	sessions := &fakeSessions{}

	loop := &Loop{
		Sessions: sessions,
		Scan: func(context.Context, mail.Mailbox, string) {
			panic("unexpected parse fault")
		},
		Folders:  []string{"INBOX"},
		Interval: time.Millisecond,
		Log:      zap.NewNop(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	waitForPasses(t, sessions, 2)
	cancel()
	<-done
}

func TestRunStopsOnCancel(t *testing.T) {
	sessions := &fakeSessions{}

	loop := &Loop{
		Sessions: sessions,
		Scan:     func(context.Context, mail.Mailbox, string) {},
		Folders:  []string{"INBOX"},
		Interval: time.Hour, // long idle-wait; cancel must win
		Log:      zap.NewNop(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	waitForPasses(t, sessions, 1)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("loop did not stop after context cancellation")
	}
}
