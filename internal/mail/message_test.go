package mail

import (
	"strings"
	"testing"
)

func rawMultipart() []byte {
	return []byte(strings.Join([]string{
		"From: Robot <robot@another-world.com>",
		"To: group@example.com",
		"Date: Tue, 10 Jun 2025 12:30:00 +0000",
		"Subject: booking",
		"MIME-Version: 1.0",
		"Content-Type: multipart/alternative; boundary=BOUNDARY",
		"",
		"--BOUNDARY",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"plain fallback",
		"--BOUNDARY",
		"Content-Type: text/html; charset=utf-8",
		"",
		"Имя: Иван<br>Телефон: 123",
		"--BOUNDARY--",
		"",
	}, "\r\n"))
}

func TestParseMessageMultipart(t *testing.T) {
	msg := parseMessage(42, rawMultipart())

	if msg.UID != 42 {
		t.Errorf("UID = %d, want 42", msg.UID)
	}
	if msg.From != "Robot <robot@another-world.com>" {
		t.Errorf("From = %q", msg.From)
	}
	if msg.Date != "Tue, 10 Jun 2025 12:30:00 +0000" {
		t.Errorf("Date = %q", msg.Date)
	}
	if !strings.Contains(msg.HTMLBody, "Имя: Иван<br>Телефон: 123") {
		t.Errorf("HTMLBody = %q", msg.HTMLBody)
	}
	if !strings.Contains(msg.TextBody, "plain fallback") {
		t.Errorf("TextBody = %q", msg.TextBody)
	}
	// The HTML part wins when both are present.
	if msg.Body() != msg.HTMLBody {
		t.Errorf("Body() = %q, want HTML part", msg.Body())
	}
}

func TestParseMessageSinglePart(t *testing.T) {
	raw := []byte(strings.Join([]string{
		"From: robot@another-world.com",
		"Date: Tue, 10 Jun 2025 12:30:00 +0000",
		"Content-Type: text/html; charset=utf-8",
		"",
		"Имя: Иван",
		"",
	}, "\r\n"))

	msg := parseMessage(1, raw)

	if !strings.Contains(msg.HTMLBody, "Имя: Иван") {
		t.Errorf("HTMLBody = %q", msg.HTMLBody)
	}
	if msg.Body() != msg.HTMLBody {
		t.Errorf("Body() = %q, want HTML part", msg.Body())
	}
}

func TestParseMessageMalformedFallsBackToRaw(t *testing.T) {
	raw := []byte("complete garbage, not a message")

	msg := parseMessage(5, raw)

	if msg.TextBody != string(raw) {
		t.Errorf("TextBody = %q, want raw payload", msg.TextBody)
	}
	if msg.Body() != string(raw) {
		t.Errorf("Body() = %q, want raw payload", msg.Body())
	}
}
