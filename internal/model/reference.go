package model

// ReferenceKind tags which register a legislative reference belongs to.
type ReferenceKind string

const (
	ReferenceOrdinance  ReferenceKind = "ordinance"
	ReferenceResolution ReferenceKind = "resolution"
)

// ReferenceToken is the typed form of a free-text legislative reference
// ("Ordinance No. 773", "25-012"). Agenda titles and reference numbers are
// parsed into tokens at the reconciliation boundary; everything downstream
// works over the token, never over the raw string.
type ReferenceToken struct {
	Kind   ReferenceKind `json:"kind"`
	Number string        `json:"number"`
}

// MatchProvenance records how the identity resolver arrived at a match.
// Substring matches are low confidence and can misattribute across numbers
// that are textual substrings of one another; callers keep the provenance
// observable rather than hiding it.
type MatchProvenance string

const (
	MatchExact        MatchProvenance = "exact"
	MatchYearPrefixed MatchProvenance = "year_prefixed"
	MatchSubstring    MatchProvenance = "substring"
)

// ResolvedOrdinance is the identity resolver's output: the canonical record
// plus how it was matched.
type ResolvedOrdinance struct {
	Ordinance  Ordinance       `json:"ordinance"`
	Provenance MatchProvenance `json:"provenance"`
}
