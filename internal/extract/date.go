package extract

import (
	"fmt"
	"net/mail"
	"time"
)

// russianMonths maps time.Month to the genitive Russian month name used
// in the notification header.
var russianMonths = map[time.Month]string{
	time.January:   "января",
	time.February:  "февраля",
	time.March:     "марта",
	time.April:     "апреля",
	time.May:       "мая",
	time.June:      "июня",
	time.July:      "июля",
	time.August:    "августа",
	time.September: "сентября",
	time.October:   "октября",
	time.November:  "ноября",
	time.December:  "декабря",
}

// moscow is the display zone for notification dates. Falls back to a
// fixed UTC+3 offset on hosts without tzdata.
var moscow = loadMoscow()

func loadMoscow() *time.Location {
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		return time.FixedZone("MSK", 3*60*60)
	}
	return loc
}

// FormatDate renders an RFC 2822 Date header as
// "DD <месяц> YYYY, HH:MM" in Moscow time. An unparseable header is
// returned unchanged so the notification still carries something.
func FormatDate(header string) string {
	t, err := mail.ParseDate(header)
	if err != nil {
		return header
	}
	t = t.In(moscow)
	return fmt.Sprintf("%02d %s %d, %02d:%02d",
		t.Day(), russianMonths[t.Month()], t.Year(), t.Hour(), t.Minute())
}
