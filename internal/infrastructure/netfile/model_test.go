package netfile

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/turtacn/netmodel/pkg/errors"
)

const sampleModel = `;ID;pH;IS;Potential mV;Volume;
compartment;c;7.2;0.25;0;
compartment;e;7.0;0.25;90;

;Model;;;;;

;Abbreviation;reactions;;;;
reaction;R1;C00084[e] = C00084[c];;;;
reaction;R2;[c]C00049 + C00044 = C03794;;;;
reaction;R1;[c]C00092 = C00085;;;;
reaction;R3;[c](2) C00027 = (2) C00001 + C00007;;;;

;Biomass Reaction;
reaction;Biomass;C00002 = C00008

Thermo names;;

;Metabolite (don't change);Name in model
metabolite;C00001;C00001
`

func TestReadModelReactions(t *testing.T) {
	got, err := ReadModelReactions(strings.NewReader(sampleModel), false)
	require.NoError(t, err)
	assert.Equal(t, []ModelReaction{
		{ID: "R1", Equation: "[c]C00092 = C00085"},
		{ID: "R2", Equation: "[c]C00049 + C00044 = C03794"},
		{ID: "R3", Equation: "[c](2) C00027 = (2) C00001 + C00007"},
		{ID: "Biomass", Equation: "C00002 = C00008"},
	}, got)
}

func TestReadModelReactions_SingleCompartment(t *testing.T) {
	got, err := ReadModelReactions(strings.NewReader(sampleModel), true)
	require.NoError(t, err)

	ids := make([]string, 0, len(got))
	for _, rx := range got {
		ids = append(ids, rx.ID)
	}
	// R1's first line has no leading bracket, so only its second line is kept.
	assert.Equal(t, []string{"R2", "R1", "R3"}, ids)
}

func TestReadModelReactions_ShortLine(t *testing.T) {
	_, err := ReadModelReactions(strings.NewReader("reaction;R1\n"), false)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeReadFailed))
}

func TestWriteModel(t *testing.T) {
	m := &Model{
		Compartments: []ModelCompartment{
			{Tag: "c", Columns: []string{"7.2", "0.25", "0", ""}},
		},
		Reactions: []ModelReaction{
			{ID: "R1", Equation: "C00052[e] = C00052[p]"},
			{ID: "R2", Equation: "[c]C00025 + C16155 = C00026 + C16153"},
		},
		Biomass:     "C00002 = C00008",
		HasBiomass:  true,
		Metabolites: []string{"C00002", "C00008"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteModel(&buf, m))

	want := `;ID;pH;IS;Potential mV;Volume;
compartment;c;7.2;0.25;0;

;Model;;;;;

;Abbreviation;reactions;;;;
reaction;R1;C00052[e] = C00052[p];;;;
reaction;R2;[c]C00025 + C16155 = C00026 + C16153;;;;

;Biomass Reaction;
reaction;Biomass;C00002 = C00008


Thermo names;;

;Metabolite (don't change);Name in model
metabolite;C00002;C00002
metabolite;C00008;C00008

`
	assert.Equal(t, want, buf.String())
}

func TestWriteModel_WithoutBiomass(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteModel(&buf, &Model{}))
	assert.NotContains(t, buf.String(), "Biomass")
	assert.True(t, strings.HasSuffix(buf.String(), ";Metabolite (don't change);Name in model\n\n"))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteModel_WriteError(t *testing.T) {
	err := WriteModel(failingWriter{}, &Model{Metabolites: make([]string, 10000)})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeWriteFailed))
}
