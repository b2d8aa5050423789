// Package stage derives the discrete risk tier of a negotiation from the
// counterparty's behavioral counters. The tier drives strategy selection
// and pressure level for every turn.
package stage

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Stage is the discrete risk/pressure tier of a session, ordered by
// increasing pressure. It marshals as "Stage0".."Stage4" on the wire.
type Stage int

const (
	// Stage0 covers pre-due-date sessions. Relationship building only.
	Stage0 Stage = iota
	// Stage1 is due or just past due with a clean record.
	Stage1
	// Stage2 shows early risk signals.
	Stage2
	// Stage3 shows established risk. Firm handling.
	Stage3
	// Stage4 is maximum pressure within compliance bounds.
	Stage4
)

// String returns the wire form, e.g. "Stage3".
func (s Stage) String() string {
	return fmt.Sprintf("Stage%d", int(s))
}

// IsValid checks if the stage is within the defined range.
func (s Stage) IsValid() bool {
	return s >= Stage0 && s <= Stage4
}

// MarshalJSON implements json.Marshaler, emitting the "StageN" wire form.
func (s Stage) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements json.Unmarshaler. It accepts the "StageN" wire
// form and, for permissiveness toward provider output, a bare integer.
func (s *Stage) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		parsed, perr := Parse(str)
		if perr != nil {
			return perr
		}
		*s = parsed
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid stage: %s", string(data))
	}
	parsed := Stage(n)
	if !parsed.IsValid() {
		return fmt.Errorf("invalid stage index: %d", n)
	}
	*s = parsed
	return nil
}

// Parse converts the "StageN" wire form (or a bare digit) to a Stage.
func Parse(str string) (Stage, error) {
	trimmed := strings.TrimSpace(str)
	digits := strings.TrimPrefix(trimmed, "Stage")
	n, err := strconv.Atoi(digits)
	if err != nil {
		return Stage0, fmt.Errorf("invalid stage: %q", str)
	}
	parsed := Stage(n)
	if !parsed.IsValid() {
		return Stage0, fmt.Errorf("invalid stage index: %d", n)
	}
	return parsed, nil
}

// Score computes the weighted behavioral risk score. Broken promises and
// refusals weigh more than elapsed time because they are active signals.
func Score(dpd, brokenPromises, paymentRefusals int) int {
	return dpd*10 + brokenPromises*15 + paymentRefusals*20
}

// Calculate maps behavioral counters to a stage. Negative dpd always maps
// to Stage0: a session before its due date stays in relationship building
// no matter what counters it accumulated earlier. The 30 boundary is
// half-open, so a score of exactly 30 lands in Stage3.
func Calculate(dpd, brokenPromises, paymentRefusals int) Stage {
	if dpd < 0 {
		return Stage0
	}

	score := Score(dpd, brokenPromises, paymentRefusals)
	switch {
	case score == 0:
		return Stage1
	case score < 30:
		return Stage2
	case score < 60:
		return Stage3
	default:
		return Stage4
	}
}

// NamedEscalationAllowed reports whether SOP permits naming a concrete
// consequence: at least one broken promise and more than three days past
// due. Gates the named_escalation permission on Stage4 strategies.
func NamedEscalationAllowed(dpd, brokenPromises int) bool {
	return brokenPromises >= 1 && dpd > 3
}
