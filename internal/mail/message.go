package mail

import (
	"bytes"
	"io"
	"strings"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-message"
	gomail "github.com/emersion/go-message/mail"

	"github.com/avkuznetsov/booking-relay/internal/extract"
)

// RawMessage is one fetched mail item, immutable once parsed. The From
// and Date headers are kept raw: sender matching is substring-based and
// the date formatter owns its own fallback for unparseable values.
type RawMessage struct {
	UID      imap.UID
	From     string
	Date     string
	TextBody string
	HTMLBody string
}

// Body returns the part the extractor should see: the HTML part when
// present, the plain-text part otherwise.
func (m *RawMessage) Body() string {
	if m.HTMLBody != "" {
		return m.HTMLBody
	}
	return m.TextBody
}

// parseMessage walks the MIME structure of a raw RFC 5322 message and
// pulls out the headers and inline text parts the scanner needs. Parse
// problems degrade to treating the whole payload as plain text rather
// than failing: a malformed robot mail should still reach the
// extractor, which decides whether anything usable is in it.
func parseMessage(uid imap.UID, raw []byte) *RawMessage {
	msg := &RawMessage{UID: uid}

	mr, err := gomail.CreateReader(bytes.NewReader(raw))
	if mr == nil || (err != nil && !message.IsUnknownCharset(err)) {
		msg.TextBody = string(raw)
		return msg
	}
	defer mr.Close()

	msg.From = mr.Header.Get("From")
	msg.Date = mr.Header.Get("Date")

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil && !message.IsUnknownCharset(err) {
			break
		}
		if part == nil {
			break
		}

		h, ok := part.Header.(*gomail.InlineHeader)
		if !ok {
			continue
		}

		contentType, params, _ := h.ContentType()
		body, readErr := io.ReadAll(part.Body)
		if readErr != nil {
			continue
		}
		body = extract.DecodeCharset(body, params["charset"])

		switch {
		case strings.HasPrefix(contentType, "text/html"):
			msg.HTMLBody = string(body)
		case strings.HasPrefix(contentType, "text/plain"):
			msg.TextBody = string(body)
		}
	}

	return msg
}
