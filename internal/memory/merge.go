// Package memory applies critic-produced patches to the session record.
// Each known field carries a merge policy resolved at compile time
// through a closed field table; the record must remember every excuse
// ever offered while only keeping the latest classification of state.
package memory

import (
	"strconv"
	"strings"

	"github.com/parley-ai/parley/internal/session"
)

// Policy is how a patch value combines with the existing field value.
type Policy int

const (
	// Overwrite replaces the old value entirely (scalars, counters,
	// categorical tags).
	Overwrite Policy = iota

	// Cumulative unions list values with the existing list, preserving
	// first-seen order, no duplicates.
	Cumulative

	// Appendable joins text onto the old value with a separator; the
	// field accumulates every explanation across turns.
	Appendable

	// DeepMerge shallow-merges map values, new keys overriding old.
	DeepMerge
)

// detailSeparator joins successive reason-detail fragments.
const detailSeparator = " | "

// fieldPolicies is the closed merge-policy table for patch keys that map
// to typed session fields. Keys absent here land in the session's Extra
// map (maps shallow-merged, everything else overwritten).
var fieldPolicies = map[string]Policy{
	"unresolved_obstacles":  Cumulative,
	"history_raw_reasons":   Cumulative,
	"history_events":        Cumulative,
	"reason_detail":         Appendable,
	"dpd":                   Overwrite,
	"broken_promises":       Overwrite,
	"payment_refusals":      Overwrite,
	"no_response_streak":    Overwrite,
	"reason_category":       Overwrite,
	"ability_score":         Overwrite,
	"history_summary":       Overwrite,
	"extension_eligible":    Overwrite,
	"debt_amount":           Overwrite,
	"allowed_contact_hours": Overwrite,
}

// PolicyFor reports the merge policy for a patch key. Unknown keys fall
// back to Overwrite into the overflow map.
func PolicyFor(field string) Policy {
	if p, ok := fieldPolicies[field]; ok {
		return p
	}
	return Overwrite
}

// Apply merges a memory patch into the session. It never fails: the
// patch originates from a provider whose output cannot be fully trusted
// but whose intent is directive, so malformed values degrade to verbatim
// writes instead of errors.
func Apply(s *session.Session, patch map[string]any) {
	if s == nil || len(patch) == 0 {
		return
	}

	for key, value := range patch {
		switch key {
		case "unresolved_obstacles":
			s.UnresolvedObstacles = unionStrings(s.UnresolvedObstacles, toStringSlice(value))
		case "history_raw_reasons":
			s.HistoryRawReasons = unionStrings(s.HistoryRawReasons, toStringSlice(value))
		case "history_events":
			s.HistoryEvents = unionStrings(s.HistoryEvents, toStringSlice(value))

		case "reason_detail":
			s.ReasonDetail = appendDetail(s.ReasonDetail, value)

		// Typed fields that reject coercion keep the raw value in the
		// overflow map: the model observed something, even if it does not
		// fit the field.
		case "dpd":
			if n, ok := toInt(value); ok {
				s.DPD = n
			} else {
				writeExtra(s, key, value)
			}
		case "broken_promises":
			if n, ok := toInt(value); ok {
				s.BrokenPromises = n
			} else {
				writeExtra(s, key, value)
			}
		case "payment_refusals":
			if n, ok := toInt(value); ok {
				s.PaymentRefusals = n
			} else {
				writeExtra(s, key, value)
			}
		case "no_response_streak":
			if n, ok := toInt(value); ok {
				s.NoResponseStreak = n
			} else {
				writeExtra(s, key, value)
			}

		case "reason_category":
			if str, ok := toString(value); ok {
				s.ReasonCategory = str
			} else {
				writeExtra(s, key, value)
			}
		case "ability_score":
			if str, ok := toString(value); ok {
				s.AbilityScore = str
			} else {
				writeExtra(s, key, value)
			}
		case "history_summary":
			if str, ok := toString(value); ok {
				s.HistorySummary = str
			} else {
				writeExtra(s, key, value)
			}
		case "allowed_contact_hours":
			if str, ok := toString(value); ok {
				s.AllowedContactHours = str
			} else {
				writeExtra(s, key, value)
			}

		case "extension_eligible":
			if b, ok := toBool(value); ok {
				s.ExtensionEligible = b
			} else {
				writeExtra(s, key, value)
			}

		case "debt_amount":
			if f, ok := toFloat(value); ok {
				s.DebtAmount = f
			} else {
				writeExtra(s, key, value)
			}

		default:
			writeExtra(s, key, value)
		}
	}
}

// writeExtra stores an unrecognized patch key verbatim. Map values
// shallow-merge over an existing map; anything else is last-write-wins.
func writeExtra(s *session.Session, key string, value any) {
	if s.Extra == nil {
		s.Extra = make(map[string]any)
	}

	newMap, newIsMap := value.(map[string]any)
	oldMap, oldIsMap := s.Extra[key].(map[string]any)
	if newIsMap && oldIsMap {
		for k, v := range newMap {
			oldMap[k] = v
		}
		return
	}

	s.Extra[key] = value
}

// appendDetail joins a new detail fragment onto the accumulated text.
// Non-string values are skipped; an empty fragment adds nothing.
func appendDetail(existing string, value any) string {
	fragment, ok := toString(value)
	if !ok || strings.TrimSpace(fragment) == "" {
		return existing
	}
	if existing == "" {
		return fragment
	}
	return existing + detailSeparator + fragment
}

// unionStrings appends additions not already present, preserving
// first-seen order.
func unionStrings(existing, additions []string) []string {
	if len(additions) == 0 {
		return existing
	}

	seen := make(map[string]struct{}, len(existing))
	for _, v := range existing {
		seen[v] = struct{}{}
	}

	result := existing
	for _, v := range additions {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}

// toStringSlice coerces a patch value to a string slice. A scalar string
// becomes a one-element slice; non-string list members are skipped.
func toStringSlice(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []any:
		result := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := toString(item); ok {
				result = append(result, str)
			}
		}
		return result
	default:
		return nil
	}
}

// toInt coerces JSON numbers (float64), native ints, and numeric strings.
func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func toBool(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, false
		}
		return b, true
	default:
		return false, false
	}
}

func toString(value any) (string, bool) {
	str, ok := value.(string)
	return str, ok
}
