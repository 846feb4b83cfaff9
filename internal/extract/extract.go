// Package extract turns a booking e-mail body into the field lines that
// make up a notification.
package extract

import "strings"

// Category classifies a booking message by the sentinel phrase found in
// its body.
type Category int

const (
	CategoryNone Category = iota
	CategoryBirthday
	CategoryNewBooking
)

// Sentinel phrases emitted by the booking robot. The birthday phrase is
// checked before the booking phrase; the first match wins. The robot
// spells the category phrase with a typo ("another-word"), while its
// field-line variant carries the corrected spelling; both are kept
// exactly as the robot sends them.
const (
	birthdaySentinel = "Заявка на день рождения"
	bookingSentinel  = "Новое бронирование на сайте ВАШ_ГОРОД.another-word.com"
	bookingLineLabel = "Новое бронирование на сайте ВАШ_ГОРОД.another-world.com"
)

// fieldLabels is the closed vocabulary of line prefixes the robot puts in
// its booking mails. Lines starting with anything else are dropped.
var fieldLabels = []string{
	"Имя:",
	"Телефон:",
	"Эл. почта:",
	"Дата:",
	"Время:",
	"Время окончания бронирования:",
	"Игра:",
	"Количество игроков:",
	"Сумма заказа:",
	"Промокод:",
	"Нужно доплатить на арене:",
	birthdaySentinel,
	bookingLineLabel,
}

// Annotation wording kept verbatim from the robot's site, typo included.
const (
	birthdayAnnotation = "Заявка на день рождения с сайта ВАШ_ГОРОД.another-word.com"
	bookingAnnotation  = "Новое бронирование на сайте ВАШ_ГОРОД.another-word.com"
)

// Result holds the extracted field lines, in their original order, and
// the category derived from the sentinel phrases.
type Result struct {
	Lines    []string
	Category Category
}

// Empty reports whether extraction found nothing usable. An empty result
// means the message should be left unseen for manual review, not treated
// as an error.
func (r Result) Empty() bool {
	return len(r.Lines) == 0
}

// Annotation returns the human-readable category phrase, or "" when the
// body carried no sentinel.
func (r Result) Annotation() string {
	switch r.Category {
	case CategoryBirthday:
		return birthdayAnnotation
	case CategoryNewBooking:
		return bookingAnnotation
	default:
		return ""
	}
}

// Extract filters a decoded plain-text body down to the known field
// lines. Lines are trimmed, empty lines dropped, and only lines starting
// with one of the fixed labels are kept. It never fails; a body with no
// matching lines yields an empty Result.
func Extract(text string) Result {
	var res Result

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if hasKnownLabel(line) {
			res.Lines = append(res.Lines, line)
		}
	}

	switch {
	case strings.Contains(text, birthdaySentinel):
		res.Category = CategoryBirthday
	case strings.Contains(text, bookingSentinel):
		res.Category = CategoryNewBooking
	}

	return res
}

func hasKnownLabel(line string) bool {
	for _, label := range fieldLabels {
		if strings.HasPrefix(line, label) {
			return true
		}
	}
	return false
}
