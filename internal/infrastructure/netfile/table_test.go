package netfile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/turtacn/netmodel/pkg/errors"
)

func TestReadTable_SkipsBlankLinesAndKeepsQuotes(t *testing.T) {
	in := "a\tb\r\n\n5'-dAMP\tC\"01\n"
	rows, err := ReadTable(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"a", "b"}, rows[0].Fields)
	assert.Equal(t, 1, rows[0].Line)
	assert.Equal(t, 3, rows[1].Line)
	assert.Equal(t, []string{"5'-dAMP", "C\"01"}, rows[1].Fields)
}

func TestReadMetaboliteTable(t *testing.T) {
	in := "h[c]\tC00080\nudpgal[e]\tC00052\nbiomass\tNA\nh[c]\tC00080 \n"
	table, err := ReadMetaboliteTable(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"h[c]":      "C00080",
		"udpgal[e]": "C00052",
		"biomass":   "NA",
	}, table)
}

func TestReadMetaboliteTable_WrongColumnCount(t *testing.T) {
	_, err := ReadMetaboliteTable(strings.NewReader("h[c]\tC00080\textra\n"))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeIdentifierTable))
	assert.Contains(t, err.Error(), "line 1")
}

func TestReadReactionTable_DuplicateKeepsLast(t *testing.T) {
	in := "R2\turi[e]  <=> uri[p] \nR1\tudpgal[e]  <=> udpgal[p] \nR2\th[c] -> h[p]\n"
	rows, err := ReadReactionTable(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []TableReaction{
		{ID: "R2", Equation: "h[c] -> h[p]"},
		{ID: "R1", Equation: "udpgal[e]  <=> udpgal[p]"},
	}, rows)
}

func TestReadReactionTable_MissingEquation(t *testing.T) {
	_, err := ReadReactionTable(strings.NewReader("R1\n"))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeReadFailed))
}

func TestReadCompartmentTable(t *testing.T) {
	in := "c\t7.2\t0.25\t0\t\ne \t7.0\t0.25\t90\t\n"
	rows, err := ReadCompartmentTable(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "c", rows[0].Tag)
	assert.Equal(t, []string{"7.2", "0.25", "0", ""}, rows[0].Columns)
	assert.Equal(t, "e", rows[1].Tag)
}
