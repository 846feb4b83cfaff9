package mail

import (
	netmail "net/mail"
	"strings"
)

// MatchesSender reports whether any address in a From header contains
// the trigger address, case-insensitively. Substring comparison is
// deliberate: some servers wrap the address in routing or display
// artifacts an exact match would miss. When the header does not parse
// as an address list at all, the raw header text is matched instead.
func MatchesSender(fromHeader, trigger string) bool {
	trigger = strings.ToLower(strings.TrimSpace(trigger))
	if trigger == "" {
		return false
	}

	addrs, err := netmail.ParseAddressList(fromHeader)
	if err != nil {
		return strings.Contains(strings.ToLower(fromHeader), trigger)
	}

	for _, addr := range addrs {
		if strings.Contains(strings.ToLower(addr.Address), trigger) {
			return true
		}
	}
	return false
}
