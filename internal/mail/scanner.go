package mail

import (
	"context"
	"fmt"
	"strings"

	"github.com/emersion/go-imap/v2"
	"go.uber.org/zap"

	"github.com/avkuznetsov/booking-relay/internal/extract"
	"github.com/avkuznetsov/booking-relay/internal/metrics"
	"github.com/avkuznetsov/booking-relay/internal/notify"
)

// Mailbox is the subset of Session the scanner needs. Narrowed to an
// interface so tests can drive the scanner against a fake server.
type Mailbox interface {
	Select(folder string) error
	SearchUnseen() ([]imap.UID, error)
	Fetch(uid imap.UID) (*RawMessage, error)
	MarkSeen(uid imap.UID) error
}

// Message text around the extracted field lines, verbatim from the
// group's existing notifications.
const (
	headerFormat  = "📩 *Новое уведомление от робота за %s!*"
	closingPrompt = "💡 Пожалуйста, свяжитесь с клиентом!"
	unknownDate   = "неизвестно"
)

// outcome is the explicit per-message result of a scan step. Modelling
// skip/deliver/fault as data keeps the per-message loop free of
// unwinding control flow: one message's fate never decides another's.
type outcome struct {
	status string // delivered, skipped_sender, skipped_empty, fault
	err    error
}

// Scanner runs the per-folder pipeline: list unseen, filter by sender,
// extract fields, deliver, and commit the \Seen flag on success.
type Scanner struct {
	Sink    notify.Sink
	Trigger string
	Log     *zap.Logger
}

// ScanFolder processes every message currently unseen in folder. A
// folder that cannot be selected or searched is logged and skipped
// without affecting other folders; per-message failures never abort the
// rest of the folder. Messages arriving mid-scan wait for the next poll.
func (s *Scanner) ScanFolder(ctx context.Context, mbox Mailbox, folder string) {
	log := s.Log.With(zap.String("folder", folder))

	if err := mbox.Select(folder); err != nil {
		log.Error("selecting folder failed", zap.Error(err))
		metrics.RecordFolderError(folder)
		return
	}

	uids, err := mbox.SearchUnseen()
	if err != nil {
		log.Error("searching unseen messages failed", zap.Error(err))
		metrics.RecordFolderError(folder)
		return
	}
	if len(uids) == 0 {
		log.Debug("no unseen messages")
		return
	}

	log.Info("unseen messages found", zap.Int("count", len(uids)))

	for _, uid := range uids {
		out := s.processMessage(ctx, mbox, uid)
		metrics.RecordMessage(out.status)

		mlog := log.With(zap.Uint32("uid", uint32(uid)))
		switch out.status {
		case statusDelivered:
			mlog.Info("notification delivered, message marked seen")
		case statusSkippedSender:
			mlog.Info("sender mismatch, message left unseen")
		case statusSkippedEmpty:
			mlog.Warn("no booking fields extracted, message left unseen")
		case statusFault:
			mlog.Error("processing message failed", zap.Error(out.err))
		}
	}
}

const (
	statusDelivered     = "delivered"
	statusSkippedSender = "skipped_sender"
	statusSkippedEmpty  = "skipped_empty"
	statusFault         = "fault"
)

// processMessage runs one message through the pipeline. The message is
// marked seen only after the sink confirmed delivery; every other exit
// leaves it unseen so the next poll (or a human) picks it up.
func (s *Scanner) processMessage(ctx context.Context, mbox Mailbox, uid imap.UID) outcome {
	msg, err := mbox.Fetch(uid)
	if err != nil {
		return outcome{status: statusFault, err: fmt.Errorf("fetching message: %w", err)}
	}

	if !MatchesSender(msg.From, s.Trigger) {
		return outcome{status: statusSkippedSender}
	}

	res := extract.Extract(extract.HTMLToText(msg.Body()))
	if res.Empty() {
		return outcome{status: statusSkippedEmpty}
	}

	text := composeNotification(res, msg.Date)
	if err := s.Sink.Send(ctx, text); err != nil {
		metrics.RecordSend("failed")
		return outcome{status: statusFault, err: fmt.Errorf("delivering notification: %w", err)}
	}
	metrics.RecordSend("success")

	if err := mbox.MarkSeen(uid); err != nil {
		// Delivered but not acknowledged: the next pass will send a
		// duplicate, which the at-least-once contract allows.
		return outcome{status: statusFault, err: fmt.Errorf("after delivery: %w", err)}
	}

	return outcome{status: statusDelivered}
}

// composeNotification builds the group message: dated header, optional
// category annotation, the field lines, and the closing prompt.
func composeNotification(res extract.Result, dateHeader string) string {
	if dateHeader == "" {
		dateHeader = unknownDate
	}

	var b strings.Builder
	fmt.Fprintf(&b, headerFormat, extract.FormatDate(dateHeader))
	b.WriteString("\n\n")
	if ann := res.Annotation(); ann != "" {
		b.WriteString(ann)
		b.WriteString("\n\n")
	}
	b.WriteString(strings.Join(res.Lines, "\n"))
	b.WriteString("\n\n")
	b.WriteString(closingPrompt)
	return b.String()
}
