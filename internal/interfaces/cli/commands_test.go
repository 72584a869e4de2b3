package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/netmodel/pkg/errors"
)

const (
	modelA = "reaction;R1;C00001 + C00002 = C00003;;;;\n" +
		"reaction;R2;[c]C00004 = C00005;;;;\n"
	modelB = "reaction;X1;C00003 = C00001 + C00002;;;;\n" +
		"reaction;X2;2 C00001 + 2 C00002 = 2 C00003;;;;\n"
)

func TestMatchCmd_Stdout(t *testing.T) {
	dir := t.TempDir()
	m1 := writeFile(t, dir, "a.net", modelA)
	m2 := writeFile(t, dir, "b.net", modelB)

	res := runCLI(t, "", "match", m1, m2)
	require.NoError(t, res.err)
	assert.Equal(t, "R1\tX1\t-1\nR1\tX2\t1\n", res.stdout)
}

func TestMatchCmd_BooleanOnly(t *testing.T) {
	dir := t.TempDir()
	m1 := writeFile(t, dir, "a.net", modelA)
	m2 := writeFile(t, dir, "b.net", modelB)

	res := runCLI(t, "", "match", "--boolean-only", "--workers", "3", m1, m2)
	require.NoError(t, res.err)
	assert.Equal(t, "R1\tX1\nR1\tX2\n", res.stdout)
}

func TestMatchCmd_SingleCompartment(t *testing.T) {
	dir := t.TempDir()
	m1 := writeFile(t, dir, "a.net", modelA)
	m2 := writeFile(t, dir, "b.net", modelB)

	res := runCLI(t, "", "match", "-s", m1, m2)
	require.NoError(t, res.err)
	assert.Empty(t, res.stdout)
}

func TestMatchCmd_StdinAndOutfile(t *testing.T) {
	dir := t.TempDir()
	m2 := writeFile(t, dir, "b.net", modelB)
	out := filepath.Join(dir, "pairs.tsv")

	res := runCLI(t, modelA, "match", "-", m2, out)
	require.NoError(t, res.err)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "2 equivalent pairs out of 4 comparisons")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "R1\tX1\t-1\nR1\tX2\t1\n", string(data))
}

func TestMatchCmd_TableAndJSON(t *testing.T) {
	dir := t.TempDir()
	m1 := writeFile(t, dir, "a.net", modelA)
	m2 := writeFile(t, dir, "b.net", modelB)

	res := runCLI(t, "", "--output", "table", "match", m1, m2)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "X1")
	assert.Contains(t, res.stdout, "-1")

	res = runCLI(t, "", "-o", "json", "match", m1, m2)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, `"comparisons": 4`)
	assert.Contains(t, res.stdout, `"id2": "X2"`)
}

func TestMatchCmd_ObjectStore(t *testing.T) {
	store := newMemStore()
	store.objects["models/a.net"] = []byte(modelA)
	store.objects["models/b.net"] = []byte(modelB)
	useMemStore(t, store)

	res := runCLI(t, "", "match", "minio://models/a.net", "minio://models/b.net", "minio://results/pairs.tsv")
	require.NoError(t, res.err)

	assert.Equal(t, "R1\tX1\t-1\nR1\tX2\t1\n", string(store.objects["results/pairs.tsv"]))
	meta := store.metadata["results/pairs.tsv"]
	assert.NotEmpty(t, meta["run-id"])
	assert.Equal(t, "minio://models/a.net", meta["model1"])
}

func TestMatchCmd_Errors(t *testing.T) {
	dir := t.TempDir()
	m1 := writeFile(t, dir, "a.net", modelA)

	res := runCLI(t, "", "match", m1)
	assert.Error(t, res.err)

	res = runCLI(t, "", "match", m1, filepath.Join(dir, "missing.net"))
	require.Error(t, res.err)
	assert.True(t, errors.IsCode(res.err, errors.ErrCodeReadFailed))

	useMemStore(t, newMemStore())
	res = runCLI(t, "", "match", m1, "minio://models/absent.net")
	require.Error(t, res.err)
	assert.True(t, errors.IsCode(res.err, errors.ErrCodeNotFound))
}

func TestCompareCmd(t *testing.T) {
	res := runCLI(t, "", "compare", "A + B = C", "C = 2 A + 2 B")
	require.NoError(t, res.err)
	assert.Equal(t, "true\t-1\n", res.stdout)

	res = runCLI(t, "", "compare", "--boolean-only", "A + B = C", "A + B = 2 C")
	require.NoError(t, res.err)
	assert.Equal(t, "false\n", res.stdout)

	res = runCLI(t, "", "-o", "json", "compare", "A = B", "A = B")
	require.NoError(t, res.err)
	assert.JSONEq(t, `{"matched": true, "direction": 1}`, res.stdout)
}

const (
	metaboliteTable = "glc\tC00031\natp\tC00002\nadp\tC00008\ng6p\tC00092\nh\tC00080\nwater\tH2O\n"
	reactionTable   = "HEX1\tglc[c] + atp[c] = g6p[c] + adp[c] + h[c]\n" +
		"UNK\tglc[c] = xyz[c]\n"
	compartmentTable = "c\t7.2\t0.25\t0\t1\n"
)

func TestFormatCmd_Stdout(t *testing.T) {
	dir := t.TempDir()
	mets := writeFile(t, dir, "mets.tsv", metaboliteTable)
	rxns := writeFile(t, dir, "rxns.tsv", reactionTable)
	comps := writeFile(t, dir, "comps.tsv", compartmentTable)

	res := runCLI(t, "", "format", "-m", mets, "-r", rxns, "--compartments", comps)
	require.NoError(t, res.err)

	want := ";ID;pH;IS;Potential mV;Volume;\n" +
		"compartment;c;7.2;0.25;0;1\n" +
		"\n;Model;;;;;\n\n" +
		";Abbreviation;reactions;;;;\n" +
		"reaction;HEX1;[c]C00031 + C00002 = C00092 + C00008;;;;\n" +
		"\n\nThermo names;;\n\n" +
		";Metabolite (don't change);Name in model\n" +
		"metabolite;C00002;C00002\n" +
		"metabolite;C00008;C00008\n" +
		"metabolite;C00031;C00031\n" +
		"metabolite;C00080;C00080\n" +
		"metabolite;C00092;C00092\n" +
		"\n"
	assert.Equal(t, want, res.stdout)
}

func TestFormatCmd_BiomassAllowListAndOutfile(t *testing.T) {
	dir := t.TempDir()
	mets := writeFile(t, dir, "mets.tsv", metaboliteTable)
	rxns := writeFile(t, dir, "rxns.tsv", reactionTable)
	comps := writeFile(t, dir, "comps.tsv", compartmentTable)
	biomass := writeFile(t, dir, "biomass.txt", "atp[c] = adp[c] + h[c]\n")
	allow := writeFile(t, dir, "allow.txt", "HEX1\n\n")
	out := filepath.Join(dir, "model.net")

	res := runCLI(t, "", "format", "-m", mets, "-r", rxns, "--compartments", comps,
		"-b", biomass, "-a", allow, "-f", out, "--proton-id", "")
	require.NoError(t, res.err)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "1 reactions written to")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "reaction;HEX1;[c]C00031 + C00002 = C00092 + C00008 + C00080;;;;\n")
	assert.Contains(t, string(data), "\n;Biomass Reaction;\nreaction;Biomass;C00002 = C00008 + C00080\n")
}

func TestFormatCmd_JSONSummary(t *testing.T) {
	dir := t.TempDir()
	mets := writeFile(t, dir, "mets.tsv", metaboliteTable)
	rxns := writeFile(t, dir, "rxns.tsv", reactionTable)
	comps := writeFile(t, dir, "comps.tsv", compartmentTable)

	res := runCLI(t, "", "-o", "json", "format", "-m", mets, "-r", rxns, "--compartments", comps, "-f", filepath.Join(dir, "m.net"))
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, `"run_id"`)
	assert.Contains(t, res.stdout, `"c": "c"`)
}

func TestFormatCmd_MalformedEquationWritesNothing(t *testing.T) {
	dir := t.TempDir()
	mets := writeFile(t, dir, "mets.tsv", metaboliteTable)
	rxns := writeFile(t, dir, "rxns.tsv", "BAD\tglc atp extra[c] = g6p[c]\n")
	comps := writeFile(t, dir, "comps.tsv", compartmentTable)
	out := filepath.Join(dir, "model.net")

	res := runCLI(t, "", "format", "-m", mets, "-r", rxns, "--compartments", comps, "-f", out)
	require.Error(t, res.err)
	assert.True(t, errors.IsCode(res.err, errors.ErrCodeEquationMalformed))
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFormatCmd_RequiredFlags(t *testing.T) {
	res := runCLI(t, "", "format", "-m", "mets.tsv")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "required flag")
}

func TestParseCmd(t *testing.T) {
	res := runCLI(t, "", "parse", "[c]2 A + B = C")
	require.NoError(t, res.err)
	assert.Equal(t, "[c]2 A + B = C\n\tleft\t2\tA\tc\n\tleft\t1\tB\tc\n\tright\t1\tC\tc\n", res.stdout)

	res = runCLI(t, "", "-o", "json", "parse", "(0.5) A_[e] <=> B[c]")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, `"coefficient": 0.5`)
	assert.Contains(t, res.stdout, `"compartment": "e"`)
}

func TestParseCmd_Malformed(t *testing.T) {
	res := runCLI(t, "", "parse", "A B C = D")
	require.Error(t, res.err)
	assert.True(t, errors.IsCode(res.err, errors.ErrCodeEquationMalformed))
}

func TestCompartmentsCmd(t *testing.T) {
	dir := t.TempDir()
	rxns := writeFile(t, dir, "rxns.tsv", "R1\tA[cyt] + B[cyt] = C[ext]\nR2\tD[cyt] = E[cyt]\n")

	res := runCLI(t, "", "compartments", rxns)
	require.NoError(t, res.err)
	assert.Equal(t, "cyt\tc\t4\next\te\t1\n", res.stdout)

	res = runCLI(t, "", "-o", "json", "compartments", rxns)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, `"occurrences": 4`)
}

func TestCompartmentsCmd_FromModel(t *testing.T) {
	dir := t.TempDir()
	model := writeFile(t, dir, "m.net", "reaction;R1;[cytosol]A = B;;;;\nreaction;R2;A[periplasm] = A[cytosol];;;;\n")

	res := runCLI(t, "", "compartments", "--model", model)
	require.NoError(t, res.err)
	assert.Equal(t, "cytosol\tc\t2\nperiplasm\tp\t1\n", res.stdout)
}
