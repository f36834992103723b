package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// StatusActive is the only snapshot status that marks a live stream.
const StatusActive = "active"

// StatusInactive is the status the leaderboard API emits when no users qualify.
const StatusInactive = "inactive"

// -----------------------------------------------------------------------------
// Wire Types
// -----------------------------------------------------------------------------

// Snapshot is one fetched leaderboard payload.
type Snapshot struct {
	Status    string  `json:"status"`
	Users     []Entry `json:"users"`
	Timestamp string  `json:"timestamp,omitempty"` // UTC ISO 8601, set by the API
}

// Active reports whether the snapshot status is exactly "active".
func (s *Snapshot) Active() bool {
	return s != nil && s.Status == StatusActive
}

// Entry is one ranked participant within a snapshot.
type Entry struct {
	Position int    `json:"position"` // 1-based rank
	Username string `json:"username"`
	Points   Points `json:"points"`
}

// UnmarshalJSON decodes an entry without failing the enclosing snapshot. A
// position that is not an integer becomes 0, which matches no slot. Usernames
// and points that are not strings or numbers render as their JSON text.
func (e *Entry) UnmarshalJSON(data []byte) error {
	*e = Entry{}

	var raw struct {
		Position json.RawMessage `json:"position"`
		Username json.RawMessage `json:"username"`
		Points   json.RawMessage `json:"points"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		// Not an object; the zero entry is skipped by position.
		return nil
	}

	e.Position = parsePosition(raw.Position)
	e.Username = scalarText(raw.Username)
	if err := e.Points.UnmarshalJSON(raw.Points); err != nil {
		e.Points = TextPoints(scalarText(raw.Points))
	}
	return nil
}

// parsePosition accepts an integral JSON number or a string holding a
// canonical integer. Anything else yields 0.
func parsePosition(raw json.RawMessage) int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0
		}
		n, err := strconv.Atoi(s)
		if err != nil || strconv.Itoa(n) != s {
			return 0
		}
		return n
	}

	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0
	}
	return int(f)
}

// scalarText returns the display text of a raw JSON value: strings unquoted,
// null empty, everything else verbatim.
func scalarText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return strings.TrimSpace(string(raw))
}

// Points holds a score that arrives as either a JSON number or a JSON string.
type Points struct {
	text    string
	numeric bool
}

// NumberPoints returns Points for a numeric score.
func NumberPoints(v float64) Points {
	return Points{text: strconv.FormatFloat(v, 'f', -1, 64), numeric: true}
}

// TextPoints returns Points carrying a preformatted string.
func TextPoints(s string) Points {
	return Points{text: s}
}

// String returns the display text.
func (p Points) String() string {
	return p.text
}

// IsNumeric reports whether the value was decoded from a JSON number.
func (p Points) IsNumeric() bool {
	return p.numeric
}

// UnmarshalJSON accepts a number, a string, or null.
func (p *Points) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = Points{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode points string: %w", err)
		}
		*p = TextPoints(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode points: %w", err)
	}
	f, err := n.Float64()
	if err != nil {
		return fmt.Errorf("decode points %q: %w", n, err)
	}
	*p = NumberPoints(f)
	return nil
}

// MarshalJSON writes numbers as JSON numbers and text as JSON strings.
func (p Points) MarshalJSON() ([]byte, error) {
	if p.numeric {
		return []byte(p.text), nil
	}
	return json.Marshal(p.text)
}

// -----------------------------------------------------------------------------
// Relational Types
// -----------------------------------------------------------------------------

// User is a row of the users table read by the leaderboard API.
type User struct {
	ID           string    // YouTube channel ID
	Username     string    // Display name
	Points       float64   // Loyalty points
	IsEliminated bool      // Eliminated users never appear on the board
	UpdatedAt    time.Time // Last activity
}

// RoundPoints rounds a score to one decimal place, half away from zero.
func RoundPoints(v float64) float64 {
	return math.Round(v*10) / 10
}
