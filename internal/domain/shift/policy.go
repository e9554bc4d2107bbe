// Package shift decides whether a pay record is visible to a caller working
// a given shift.
//
// Three signals may name the record's shift: the tag frozen onto the pay
// record at build time, the employee's current profile, and the report's team
// tag. They are consulted in that order and the first one present decides.
// When none is present the record is hidden.
package shift

import "strings"

// All is the wildcard requesting shift that sees every record.
const All = "All"

// Source names the rule that produced a Decision.
type Source string

const (
	SourceWildcard Source = "wildcard"
	SourceSnapshot Source = "snapshot"
	SourceLive     Source = "live"
	SourceTeam     Source = "team"
	SourceNone     Source = "none"
)

type Decision struct {
	Belongs bool
	Source  Source
	// Tag is the shift value the deciding signal carried, empty for
	// SourceWildcard and SourceNone.
	Tag string
}

// Ambiguous reports whether no signal was present and the record was hidden
// by default.
func (d Decision) Ambiguous() bool {
	return d.Source == SourceNone
}

type signal struct {
	source Source
	tag    *string
}

// Resolve applies the precedence snapshot > live > team to decide whether a
// record belongs to requesting. Blank values count as absent. Comparison
// ignores case and surrounding whitespace.
func Resolve(snapshot, live, team *string, requesting string) Decision {
	if IsWildcard(requesting) {
		return Decision{Belongs: true, Source: SourceWildcard}
	}

	signals := [...]signal{
		{SourceSnapshot, snapshot},
		{SourceLive, live},
		{SourceTeam, team},
	}
	for _, s := range signals {
		tag, ok := Normalize(s.tag)
		if !ok {
			continue
		}
		return Decision{
			Belongs: strings.EqualFold(tag, strings.TrimSpace(requesting)),
			Source:  s.source,
			Tag:     tag,
		}
	}

	return Decision{Belongs: false, Source: SourceNone}
}

// Belongs is Resolve without the explanation.
func Belongs(snapshot, live, team *string, requesting string) bool {
	return Resolve(snapshot, live, team, requesting).Belongs
}

// IsWildcard reports whether requesting is absent or "All".
func IsWildcard(requesting string) bool {
	r := strings.TrimSpace(requesting)
	return r == "" || strings.EqualFold(r, All)
}

// Normalize trims tag and reports whether anything is left.
func Normalize(tag *string) (string, bool) {
	if tag == nil {
		return "", false
	}
	t := strings.TrimSpace(*tag)
	return t, t != ""
}

// Ptr returns a normalized copy of tag, or nil when it is blank.
func Ptr(tag *string) *string {
	t, ok := Normalize(tag)
	if !ok {
		return nil
	}
	return &t
}
