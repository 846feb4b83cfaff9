package extract

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// brVariants covers the spellings of the line-break tag seen in the
// robot's mails before the markup is tokenized.
var brVariants = []string{"<br>", "<br/>", "<br />", "<BR>", "<BR/>"}

// HTMLToText strips markup from an HTML body while keeping the line
// structure the field extractor depends on: <br> variants become
// newlines, and every remaining text token lands on its own line.
func HTMLToText(body string) string {
	for _, br := range brVariants {
		body = strings.ReplaceAll(body, br, "\n")
	}

	z := html.NewTokenizer(strings.NewReader(body))
	var b strings.Builder
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt != html.TextToken {
			continue
		}
		text := string(z.Text())
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(line)
		}
	}
	return b.String()
}

// DecodeCharset converts a MIME part body to UTF-8 according to its
// declared charset label. Unknown labels and conversion failures fall
// back to the raw bytes.
func DecodeCharset(body []byte, label string) []byte {
	if label == "" || strings.EqualFold(label, "utf-8") {
		return body
	}
	r, err := charset.NewReaderLabel(label, strings.NewReader(string(body)))
	if err != nil {
		return body
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return body
	}
	return decoded
}
