// Package poll drives the mail pipeline: one session per pass, a fixed
// ordered folder list, and a fixed sleep between passes, forever.
package poll

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avkuznetsov/booking-relay/internal/mail"
	"github.com/avkuznetsov/booking-relay/internal/metrics"
)

// SessionRunner supplies scoped, already-authenticated mail sessions.
// *mail.Client implements it.
type SessionRunner interface {
	WithSession(ctx context.Context, fn func(*mail.Session) error) error
}

// Loop is the top-level driver. It has two states, polling and
// idle-wait, and no terminal state: a failed pass is logged and the next
// one starts after the same fixed interval.
type Loop struct {
	Sessions SessionRunner
	Scan     func(ctx context.Context, mbox mail.Mailbox, folder string)
	Folders  []string
	Interval time.Duration
	Log      *zap.Logger
}

// Run polls until ctx is cancelled (process shutdown). No fault inside a
// pass terminates the loop; faults are logged and the pass abandoned.
func (l *Loop) Run(ctx context.Context) {
	l.Log.Info("poll loop started",
		zap.Duration("interval", l.Interval),
		zap.Strings("folders", l.Folders),
	)

	for {
		l.runPass(ctx)

		select {
		case <-ctx.Done():
			l.Log.Info("poll loop stopped")
			return
		case <-time.After(l.Interval):
		}
	}
}

// runPass opens one session, scans every configured folder in order, and
// releases the session. Folder order decides notification emission
// order only. Panics are contained here so a bug in one pass cannot
// take the process down.
func (l *Loop) runPass(ctx context.Context) {
	log := l.Log.With(zap.String("pass", shortPassID()))

	defer func() {
		if r := recover(); r != nil {
			metrics.RecordPollPass("error")
			log.Error("poll pass panicked", zap.Any("panic", r))
		}
	}()

	err := l.Sessions.WithSession(ctx, func(s *mail.Session) error {
		for _, folder := range l.Folders {
			l.Scan(ctx, s, folder)
		}
		return nil
	})
	if err != nil {
		metrics.RecordPollPass("error")
		log.Error("poll pass failed", zap.Error(err))
		return
	}

	metrics.RecordPollPass("ok")
	log.Debug("poll pass completed")
}

func shortPassID() string {
	return uuid.NewString()[:8]
}
