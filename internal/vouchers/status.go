// Package vouchers serves the stock vouchers: imports, exports and
// transfers between warehouses, with their approval workflow.
package vouchers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Status is the approval state of a voucher.
type Status int

const (
	Pending   Status = 1
	Approved  Status = 2
	Cancelled Status = 3
)

// Label is the display name of s.
func (s Status) Label() string {
	switch s {
	case Pending:
		return "Chờ duyệt"
	case Approved:
		return "Đã duyệt"
	case Cancelled:
		return "Không duyệt"
	default:
		return fmt.Sprintf("Trạng thái %d", int(s))
	}
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool { return s >= Pending && s <= Cancelled }

// Timestamp is a backend date-time. The backend writes local date-times
// without a zone; they are read in the console's location.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp reads s in any of the layouts the backend uses.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("vouchers: unrecognised timestamp %q", s)
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("vouchers: timestamp: %w", err)
	}
	if s == "" {
		*t = Timestamp{}
		return nil
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format("2006-01-02T15:04:05"))
}
