// Package resolve normalizes free-text legislative references and resolves
// them against the record store.
package resolve

import (
	"regexp"
	"strings"

	"github.com/sells-group/civic-cli/internal/model"
)

// Reference patterns, tried in order: a 4-digit-year-dash-number form
// ("2024-773") wins over a bare number ("773"). Resolution numbers also use
// two-digit-year forms ("25-012"), so their pattern is wider.
var (
	yearNumberRe       = regexp.MustCompile(`\d{4}-\d+`)
	resolutionNumberRe = regexp.MustCompile(`\d{2,4}-\d+`)
	bareNumberRe       = regexp.MustCompile(`\d+`)
	yearPrefixRe       = regexp.MustCompile(`^\d{4}-`)
)

// dashReplacer folds en-dash and em-dash variants to a plain hyphen before
// pattern matching. Agenda scrapes carry both.
var dashReplacer = strings.NewReplacer("–", "-", "—", "-")

// NormalizeDashes folds dash variants in a raw reference to hyphens.
func NormalizeDashes(raw string) string {
	return dashReplacer.Replace(raw)
}

// ExtractNumberToken pulls the canonical number token out of a free-text
// reference like "Ordinance No. 773" or "2024–773". Returns false when the
// text carries no number at all.
func ExtractNumberToken(raw string) (string, bool) {
	raw = NormalizeDashes(raw)
	if m := yearNumberRe.FindString(raw); m != "" {
		return m, true
	}
	if m := bareNumberRe.FindString(raw); m != "" {
		return m, true
	}
	return "", false
}

// ExtractResolutionNumberToken pulls the canonical resolution number out of
// a free-text reference like "Resolution No. 25-012". Unlike ordinances,
// resolution numbers carry two-digit-year prefixes, so the dashed form is
// matched more leniently and must win over the bare fallback ("25-012" is
// one number, not "25"). Returns false when the text carries no number.
func ExtractResolutionNumberToken(raw string) (string, bool) {
	raw = NormalizeDashes(raw)
	if m := resolutionNumberRe.FindString(raw); m != "" {
		return m, true
	}
	if m := bareNumberRe.FindString(raw); m != "" {
		return m, true
	}
	return "", false
}

// HasYearPrefix reports whether a token already carries a year prefix
// ("2024-773" as opposed to "773").
func HasYearPrefix(token string) bool {
	return yearPrefixRe.MatchString(token)
}

var (
	ordinanceRefRe  = regexp.MustCompile(`(?i)ordinance\s+(?:no\.?\s*)?#?\s*(\d{4}-\d+|\d+)`)
	resolutionRefRe = regexp.MustCompile(`(?i)resolution\s+(?:no\.?\s*)?#?\s*(\d{4}-\d+|\d+(?:-\d+)?)`)
)

// ParseReference parses a free-text agenda title into a typed reference token.
// All downstream reconciliation works over the token, never the raw string.
func ParseReference(text string) (model.ReferenceToken, bool) {
	text = NormalizeDashes(text)
	if m := ordinanceRefRe.FindStringSubmatch(text); m != nil {
		return model.ReferenceToken{Kind: model.ReferenceOrdinance, Number: m[1]}, true
	}
	if m := resolutionRefRe.FindStringSubmatch(text); m != nil {
		return model.ReferenceToken{Kind: model.ReferenceResolution, Number: m[1]}, true
	}
	return model.ReferenceToken{}, false
}

// MatchActionKeyword classifies explicit lifecycle signals in agenda outcome
// or title text. Returns false when the text carries no explicit signal, in
// which case the caller records the link as "discussed" and leaves lifecycle
// derivation to the inference engine.
func MatchActionKeyword(text string) (model.LinkAction, bool) {
	t := strings.ToLower(text)
	switch {
	case t == "":
		return "", false
	case strings.Contains(t, "second reading"):
		return model.ActionSecondReading, true
	case strings.Contains(t, "first reading"):
		return model.ActionFirstReading, true
	case strings.Contains(t, "adopted"), strings.Contains(t, "approved"), strings.Contains(t, "passed"):
		return model.ActionAdopted, true
	case strings.Contains(t, "tabled"):
		return model.ActionTabled, true
	case strings.Contains(t, "denied"), strings.Contains(t, "rejected"):
		return model.ActionDenied, true
	case strings.Contains(t, "withdrawn"):
		return model.ActionWithdrawn, true
	case strings.Contains(t, "introduced"):
		return model.ActionIntroduced, true
	}
	return "", false
}

// ClassifyOutcome classifies free-text outcome notes into a resolution status.
// Recognizable but unmapped text lands in pending_minutes rather than being
// guessed at. Returns false for empty text.
func ClassifyOutcome(text string) (model.ResolutionStatus, bool) {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return "", false
	}
	switch {
	case strings.Contains(t, "approved"), strings.Contains(t, "adopted"), strings.Contains(t, "passed"):
		return model.ResolutionStatusAdopted, true
	case strings.Contains(t, "rejected"), strings.Contains(t, "denied"):
		return model.ResolutionStatusRejected, true
	case strings.Contains(t, "tabled"):
		return model.ResolutionStatusTabled, true
	}
	return model.ResolutionStatusPendingMinutes, true
}

// MatchesResolutionVote reports whether a vote item title refers to the given
// resolution number. Bare substring is enough: dashed resolution numbers are
// distinctive, unlike the short ordinance numbers MatchesOrdinanceVote guards.
func MatchesResolutionVote(itemTitle, number string) bool {
	title := strings.ToLower(NormalizeDashes(itemTitle))
	return strings.Contains(title, strings.ToLower(number))
}

// MatchesOrdinanceVote reports whether a vote item title refers to the given
// ordinance number via the "Ordinance {number}" form. Bare substring is not
// enough here: ordinance numbers are short and collide with vote counts.
func MatchesOrdinanceVote(itemTitle, number string) bool {
	title := strings.ToLower(NormalizeDashes(itemTitle))
	return strings.Contains(title, "ordinance "+strings.ToLower(number))
}

// MentionsSecondReading reports whether a vote item title marks a second
// reading, which decides adoption vs first-reading passage for approve votes.
func MentionsSecondReading(itemTitle string) bool {
	return strings.Contains(strings.ToLower(itemTitle), "second reading")
}
