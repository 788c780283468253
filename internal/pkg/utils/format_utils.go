package utils

import "time"

// displayTimeLayout is the human-readable timestamp format used by the API layer.
const displayTimeLayout = "Jan 2, 2006 15:04"

// FormatAddress shortens an address for display: "0x1234...abcd".
// Addresses too short to shorten (and empty strings) are returned as-is.
func FormatAddress(address string) string {
	if len(address) <= 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}

// FormatTimestamp renders an ISO-8601 timestamp for display. Values that do
// not parse are returned unchanged; empty input stays empty.
func FormatTimestamp(value string) string {
	if value == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return value
	}
	return t.Format(displayTimeLayout)
}
