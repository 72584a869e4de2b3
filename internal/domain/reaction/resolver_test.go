package reaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_Resolve(t *testing.T) {
	res := NewResolver(map[string]string{
		"atp[c]":  "C00002",
		"atp":     "C99002",
		"glc-D":   "C00031",
		"nadh[c]": "C00004",
	})

	tests := []struct {
		name   string
		term   string
		wantID string
		wantOK bool
	}{
		{"exact suffixed key", "atp[c] = x", "C00002", true},
		{"bare name fallback", "atp[e] = x", "C99002", true},
		{"underscore form falls back to bare name", "glc-D_[e] = x", "C00031", true},
		{"global compartment does not qualify key", "[c]nadh = x", "", false},
		{"global compartment uses bare name", "[c]atp = x", "C99002", true},
		{"unknown", "pyr[c] = x", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := MustParse(tt.term).Left[0]
			id, ok := res.Resolve(p)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestResolver_RawThenBareName(t *testing.T) {
	res := NewResolver(map[string]string{"atp[c]": "X", "atp": "Y"})

	id, ok := res.Resolve(MustParse("atp_[c] = b").Left[0])
	require.True(t, ok)
	assert.Equal(t, "Y", id, "underscore form is not the raw key, so the bare name wins")

	id, ok = res.Resolve(MustParse("atp[c] = b").Left[0])
	require.True(t, ok)
	assert.Equal(t, "X", id)
}

func TestCanonicalize_GlobalCompartmentUnresolvedBySuffixedTable(t *testing.T) {
	cm, err := AllocateTags([]string{"c"})
	require.NoError(t, err)
	res := NewResolver(map[string]string{"atp[c]": "C00002", "adp[c]": "C00008"})

	got, err := Canonicalize(MustParse("[c]atp = adp"), res, cm)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestResolver_ResolveReaction(t *testing.T) {
	res := NewResolver(map[string]string{"a[c]": "C00001", "h[c]": "C00080", "b[c]": "C00002"})

	out, ok := res.ResolveReaction(MustParse("a[c] + 2 h[c] = b[c]"))
	require.True(t, ok)
	assert.Equal(t, []string{"C00001[c]"}, out.Left.Names())
	assert.Equal(t, []string{"C00002[c]"}, out.Right.Names())
	assert.Equal(t, DefaultProtonID, res.ProtonID())

	_, ok = res.ResolveReaction(MustParse("a[c] + z[c] = b[c]"))
	assert.False(t, ok, "one unresolved participant drops the reaction")
}
