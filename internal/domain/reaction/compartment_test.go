package reaction

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/netmodel/pkg/errors"
)

var iJO1366Equations = []string{
	"udpgal[e]  <=> udpgal[p] ",
	"glu-L[c] + udpLa4o[c]  <=> akg[c] + udpLa4n[c] ",
	"uri[e]  <=> uri[p] ",
	"atp[c] + h2o[c] + taur[p]  -> adp[c] + h[c] + pi[c] + taur[c] ",
	"4 h[c] + sufbcd-4fe4s[c]  -> 4fe4s[c] + sufbcd[c] ",
	"2 dmlz[c]  -> 4r5au[c] + ribflv[c] ",
	"2 o2[c] + q8h2[c]  -> 2 h[c] + 2 o2s[c] + q8[c] ",
	"2omph[c] + 0.5 o2[c]  -> 2ombzl[c] ",
	"3 q8h2[c] + 2 h[p] + no2[p]  -> 3 q8[c] + 2 h2o[p] + nh4[p] ",
}

var knoopEquations = []string{
	"PQH_B6_L_[cym] + 1 HB3p_B6_[cym] => 1 C10385_B6_S_[cym] + 1 C00080_[pps] + 1 HB2p_B6_[cym]",
	"C00254_[cyt] => C00166_[cyt] + C00001_[cyt] + C00011_[cyt]",
	"C01269_[cyt] => C00251_[cyt] + C00009_[cyt]",
	"2 C00430_[cyt] => C00931_[cyt] + 2 C00001_[cny]",
	"C03319_[cyt] + C00006_[cyn] <= C00688_[cyt] + C00005_[cyn] + C00080_[cyt]",
	"1.32535 C00093_[cyt] + 1.3327 C05764_[cyt]  => C00416_PG_[cyt] + 2.6507 C00229_[cyt]",
	"C00011_[cyt] => C00011_[ext]",
}

func TestAllocateCompartments_IdentityForSingleLetters(t *testing.T) {
	cm, err := AllocateCompartments(iJO1366Equations)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"c": "c", "e": "e", "p": "p"}, cm.AsMap())
	assert.Equal(t, []string{"c", "p", "e"}, cm.Tags())
	assert.Nil(t, cm.Changes())
}

func TestAllocateCompartments_RenamesLongTags(t *testing.T) {
	cm, err := AllocateCompartments(knoopEquations)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"cyt": "c", "cym": "y", "ext": "e", "pps": "p", "cyn": "n", "cny": "a",
	}, cm.AsMap())
	assert.Equal(t, []TagChange{
		{Old: "cyt", New: "c"},
		{Old: "cym", New: "y"},
		{Old: "cyn", New: "n"},
		{Old: "cny", New: "a"},
		{Old: "ext", New: "e"},
		{Old: "pps", New: "p"},
	}, cm.Changes())
}

func TestAllocateTags_FrequencyThenAlphabetical(t *testing.T) {
	var tags []string
	for i := 0; i < 9; i++ {
		tags = append(tags, "c")
	}
	tags = append(tags, "p", "e", "p", "e", "p", "e")

	cm, err := AllocateTags(tags)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"c": "c", "e": "e", "p": "p"}, cm.AsMap())
	assert.Equal(t, []string{"c", "e", "p"}, cm.Tags())
}

func TestAllocateTags_Bijection(t *testing.T) {
	var tags []string
	for i := 0; i < 26; i++ {
		tags = append(tags, fmt.Sprintf("cmp%02d", i))
	}
	cm, err := AllocateTags(tags)
	require.NoError(t, err)
	require.Equal(t, 26, cm.Len())

	seen := make(map[string]string)
	for _, old := range tags {
		code, ok := cm.Lookup(old)
		require.True(t, ok, old)
		assert.Len(t, code, 1)
		prev, dup := seen[code]
		assert.False(t, dup, "%s and %s share code %s", prev, old, code)
		seen[code] = old
	}
}

func TestAllocateTags_Overflow(t *testing.T) {
	// 27 tags drawn only from letters; the last one has nothing left.
	var tags []string
	for _, r := range tagAlphabet {
		tags = append(tags, string(r)+string(r))
	}
	tags = append(tags, "zz9")

	_, err := AllocateTags(tags)
	require.NoError(t, err, "digit of zz9 is still free")

	tags = append(tags[:26], "xyz")
	_, err = AllocateTags(tags)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeCompartmentOverflow))
}

func TestAllocateTags_Empty(t *testing.T) {
	cm, err := AllocateTags(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, cm.Len())
	assert.Nil(t, cm.Changes())
}

func TestScanTags(t *testing.T) {
	assert.Equal(t, []string{"c"}, ScanTags("[c]A + B = C"))
	assert.Equal(t, []string{"cyt", "ext"}, ScanTags("C00011_[cyt] => C00011_[ext]"))
	assert.Empty(t, ScanTags("A = B"))
	assert.Equal(t, []string{"e"}, ScanTags("A[] + B[e] = C[x"))
}
