package shift

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func s(v string) *string { return &v }

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		snapshot   *string
		live       *string
		team       *string
		requesting string
		want       Decision
	}{
		{"empty request is wildcard", s("A"), nil, nil, "", Decision{Belongs: true, Source: SourceWildcard}},
		{"All is wildcard", nil, nil, nil, "All", Decision{Belongs: true, Source: SourceWildcard}},
		{"all lowercase is wildcard", nil, nil, nil, " all ", Decision{Belongs: true, Source: SourceWildcard}},
		{"snapshot wins over live and team", s("A"), s("B"), s("B"), "B", Decision{Belongs: false, Source: SourceSnapshot, Tag: "A"}},
		{"snapshot match", s("A"), s("B"), nil, "A", Decision{Belongs: true, Source: SourceSnapshot, Tag: "A"}},
		{"snapshot match ignores case and padding", s("Day"), nil, nil, " day ", Decision{Belongs: true, Source: SourceSnapshot, Tag: "Day"}},
		{"live when no snapshot", nil, s("B"), s("A"), "B", Decision{Belongs: true, Source: SourceLive, Tag: "B"}},
		{"blank snapshot falls through", s("  "), s("B"), nil, "A", Decision{Belongs: false, Source: SourceLive, Tag: "B"}},
		{"team when nothing else", nil, nil, s("Night"), "night", Decision{Belongs: true, Source: SourceTeam, Tag: "Night"}},
		{"team mismatch", nil, s(""), s("Night"), "Day", Decision{Belongs: false, Source: SourceTeam, Tag: "Night"}},
		{"no signal hides", nil, nil, nil, "A", Decision{Belongs: false, Source: SourceNone}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.snapshot, tt.live, tt.team, tt.requesting)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Belongs, Belongs(tt.snapshot, tt.live, tt.team, tt.requesting))
		})
	}
}

func TestDecision_Ambiguous(t *testing.T) {
	assert.True(t, Resolve(nil, nil, nil, "A").Ambiguous())
	assert.False(t, Resolve(nil, nil, s("A"), "A").Ambiguous())
	assert.False(t, Resolve(nil, nil, nil, All).Ambiguous())
}

func TestPtr(t *testing.T) {
	assert.Nil(t, Ptr(nil))
	assert.Nil(t, Ptr(s(" ")))
	assert.Equal(t, "A", *Ptr(s(" A ")))
}
