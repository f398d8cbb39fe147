package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a document date. The server sends either a plain date
// ("2025-05-01") or a full timestamp, depending on its version.
type Date struct {
	time.Time
}

// UnmarshalJSON accepts a date, an RFC 3339 timestamp or a timestamp without zone.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}

	for _, layout := range []string{dateLayout, time.RFC3339Nano, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", s)
}

// MarshalJSON writes the same form String returns.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// String returns a plain date when there is no time of day, RFC 3339 otherwise.
func (d Date) String() string {
	if d.Hour() == 0 && d.Minute() == 0 && d.Second() == 0 && d.Nanosecond() == 0 {
		return d.Format(dateLayout)
	}
	return d.Format(time.RFC3339)
}
