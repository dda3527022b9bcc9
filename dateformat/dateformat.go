// Package dateformat renders stored timestamps for display.
package dateformat

import "time"

const Layout = "January 2, 2006"

// Format turns an RFC 3339 timestamp into a display date in UTC.
// Input that does not parse is returned unchanged.
func Format(raw string) string {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return raw
	}
	return t.UTC().Format(Layout)
}

// Time formats an already parsed timestamp the same way.
func Time(t time.Time) string {
	return t.UTC().Format(Layout)
}
