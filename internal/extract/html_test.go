package extract

import "testing"

func TestHTMLToTextNormalizesBreaks(t *testing.T) {
	body := "Имя: Иван<br>Телефон: 123<br/>Случайный текст"

	got := HTMLToText(body)

	want := "Имя: Иван\nТелефон: 123\nСлучайный текст"
	if got != want {
		t.Errorf("HTMLToText = %q, want %q", got, want)
	}
}

func TestHTMLToTextStripsTagsKeepsLines(t *testing.T) {
	body := "<html><body><p>Имя: Иван</p><div>Телефон: <b>123</b></div></body></html>"

	got := HTMLToText(body)

	// Inline markup splits a line; the extractor only needs the label
	// prefix to survive at the start of a line.
	want := "Имя: Иван\nТелефон:\n123"
	if got != want {
		t.Errorf("HTMLToText = %q, want %q", got, want)
	}
}

func TestHTMLToTextPlainTextPassesThrough(t *testing.T) {
	body := "Имя: Иван\nТелефон: 123"

	if got := HTMLToText(body); got != body {
		t.Errorf("HTMLToText = %q, want %q", got, body)
	}
}

func TestHTMLToTextExtractScenario(t *testing.T) {
	// End-to-end over normalization and extraction, matching the shape
	// of a real robot mail.
	body := "Имя: Иван\nТелефон: 123\n<br>Случайный текст"

	res := Extract(HTMLToText(body))

	if len(res.Lines) != 2 ||
		res.Lines[0] != "Имя: Иван" || res.Lines[1] != "Телефон: 123" {
		t.Errorf("extracted lines = %v, want [Имя: Иван Телефон: 123]", res.Lines)
	}
}

func TestDecodeCharsetUTF8Passthrough(t *testing.T) {
	body := []byte("Имя: Иван")

	if got := DecodeCharset(body, "utf-8"); string(got) != string(body) {
		t.Errorf("DecodeCharset utf-8 = %q, want passthrough", got)
	}
	if got := DecodeCharset(body, ""); string(got) != string(body) {
		t.Errorf("DecodeCharset empty label = %q, want passthrough", got)
	}
}

func TestDecodeCharsetKOI8R(t *testing.T) {
	// "Имя" in KOI8-R.
	body := []byte{0xe9, 0xcd, 0xd1}

	if got := DecodeCharset(body, "koi8-r"); string(got) != "Имя" {
		t.Errorf("DecodeCharset koi8-r = %q, want %q", got, "Имя")
	}
}
