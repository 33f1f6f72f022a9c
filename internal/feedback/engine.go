package feedback

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasmnd/duodle/internal/model"
)

// Engine classifies guessed attribute values against the target's values.
// It is pure and deterministic: identical inputs produce identical results,
// which matters because the same attempt is scored once per recipient.
type Engine struct{}

// New creates a new feedback Engine
func New() *Engine {
	return &Engine{}
}

// Evaluate scores every declared attribute of a guess against the target.
func (e *Engine) Evaluate(guess, target model.Candidate, attrs []model.Attribute) model.Feedback {
	fb := make(model.Feedback, len(attrs))
	for _, attr := range attrs {
		fb[attr.Key] = e.Compare(guess.Attr(attr.Key), target.Attr(attr.Key), attr)
	}
	return fb
}

// Compare classifies a single guessed value against the target's value
// under the attribute's comparison semantics.
func (e *Engine) Compare(guessVal, targetVal any, attr model.Attribute) model.FeedbackResult {
	if attr.Kind == model.KindMultiple {
		return compareSets(guessVal, targetVal)
	}

	gLabel := displayLabel(guessVal)
	gLower := normalize(guessVal)
	tLower := normalize(targetVal)

	// Exact match of non-empty scalars wins before any sentinel handling,
	// so "unknown" against "unknown" is correct.
	if gLower != "" && tLower != "" && gLower == tLower {
		return model.FeedbackResult{Kind: model.FeedbackCorrect, Label: gLabel}
	}

	gSentinel := isSentinel(gLower)
	tSentinel := isSentinel(tLower)

	if attr.Kind == model.KindOrdered && len(attr.Order) > 0 {
		// A sentinel is only comparable when the declared order itself
		// ranks it; otherwise it defeats the comparison.
		if (gSentinel || tSentinel) && !orderContainsSentinel(attr.Order) {
			return wrong(gLabel)
		}
	} else if gSentinel || tSentinel {
		return wrong(gLabel)
	}

	switch attr.Kind {
	case model.KindNumber:
		g, gok := parseNumber(gLower)
		t, tok := parseNumber(tLower)
		if !gok || !tok {
			return wrong(gLabel)
		}
		return compareRanks(g, t, gLabel)

	case model.KindOrdered:
		// Hybrid resolution: two numeric values compare numerically even
		// under a declared order.
		if g, gok := parseNumber(gLower); gok {
			if t, tok := parseNumber(tLower); tok {
				return compareRanks(g, t, gLabel)
			}
		}
		gIdx := orderIndex(attr.Order, gLower)
		tIdx := orderIndex(attr.Order, tLower)
		if gIdx < 0 || tIdx < 0 {
			return wrong(gLabel)
		}
		return compareRanks(float64(gIdx), float64(tIdx), gLabel)

	case model.KindTextGroup:
		for _, group := range attr.Groups {
			if containsFold(group, gLower) && containsFold(group, tLower) {
				return model.FeedbackResult{Kind: model.FeedbackClose, Label: gLabel}
			}
		}
		return wrong(gLabel)

	case model.KindText:
		// An explicit order or a closed vocabulary means the value set is
		// known in full, so near-misses earn no partial credit.
		if len(attr.Order) > 0 || len(attr.Hints) > 0 {
			return wrong(gLabel)
		}
		if isMaleFemalePair(gLower, tLower) {
			return wrong(gLabel)
		}
		if strings.Contains(tLower, gLower) || strings.Contains(gLower, tLower) {
			return model.FeedbackResult{Kind: model.FeedbackClose, Label: gLabel}
		}
		return wrong(gLabel)
	}

	return wrong(gLabel)
}

// compareRanks maps a pair of resolved ranks onto correct/close/higher/lower.
// Adjacent ranks score close with the direction of the guess relative to
// the target.
func compareRanks(guess, target float64, label string) model.FeedbackResult {
	switch {
	case guess == target:
		return model.FeedbackResult{Kind: model.FeedbackCorrect, Label: label}
	case guess-target == 1 || target-guess == 1:
		dir := model.DirectionLower
		if guess > target {
			dir = model.DirectionHigher
		}
		return model.FeedbackResult{Kind: model.FeedbackClose, Direction: dir, Label: label}
	case guess > target:
		return model.FeedbackResult{Kind: model.FeedbackHigher, Label: label}
	default:
		return model.FeedbackResult{Kind: model.FeedbackLower, Label: label}
	}
}

// compareSets handles multi-valued attributes as case-insensitive sets.
func compareSets(guessVal, targetVal any) model.FeedbackResult {
	gList := toStringList(guessVal)
	tList := toStringList(targetVal)

	label := "None"
	if len(gList) > 0 {
		label = strings.Join(gList, ", ")
	}

	gSet := toSet(gList)
	tSet := toSet(tList)

	switch {
	case len(gSet) == 0 && len(tSet) == 0:
		return model.FeedbackResult{Kind: model.FeedbackCorrect, Label: label}
	case len(gSet) == 0 || len(tSet) == 0:
		return wrong(label)
	}

	equal := len(gSet) == len(tSet)
	common := false
	for v := range gSet {
		if tSet[v] {
			common = true
		} else {
			equal = false
		}
	}

	switch {
	case equal:
		return model.FeedbackResult{Kind: model.FeedbackCorrect, Label: label}
	case common:
		return model.FeedbackResult{Kind: model.FeedbackClose, Label: label}
	default:
		return wrong(label)
	}
}

func wrong(label string) model.FeedbackResult {
	return model.FeedbackResult{Kind: model.FeedbackWrong, Label: label}
}

// normalize lowercases and trims a scalar value; nil becomes "".
func normalize(v any) string {
	return strings.ToLower(strings.TrimSpace(stringify(v)))
}

// isSentinel reports whether a normalized value carries no information.
func isSentinel(v string) bool {
	return v == "" || v == "unknown" || v == "none"
}

func orderContainsSentinel(order []string) bool {
	for _, item := range order {
		lower := strings.ToLower(item)
		if lower == "unknown" || lower == "none" {
			return true
		}
	}
	return false
}

// orderIndex finds a value's rank in a declared order using exact
// case-insensitive matching; substring matches would confuse entries like
// "Dragon" and "Above Dragon".
func orderIndex(order []string, value string) int {
	for i, item := range order {
		if strings.ToLower(item) == value {
			return i
		}
	}
	return -1
}

func containsFold(values []string, value string) bool {
	for _, v := range values {
		if strings.ToLower(v) == value {
			return true
		}
	}
	return false
}

// isMaleFemalePair suppresses the substring credit "male" would otherwise
// earn against "female".
func isMaleFemalePair(g, t string) bool {
	return (g == "male" && t == "female") || (g == "female" && t == "male")
}

func parseNumber(v string) (float64, bool) {
	if v == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// displayLabel renders the guessed value for feedback rows; empty scalars
// show as a dash.
func displayLabel(v any) string {
	s := strings.TrimSpace(stringify(v))
	if s == "" {
		return "-"
	}
	return s
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	default:
		return fmt.Sprint(val)
	}
}

// toStringList coerces a multi-valued attribute. JSON decoding yields
// []any; tests and native callers may pass []string directly.
func toStringList(v any) []string {
	switch val := v.(type) {
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, stringify(item))
		}
		return out
	default:
		return nil
	}
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = true
	}
	return set
}
