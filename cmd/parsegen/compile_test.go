package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okabe-lang/parsegen/grammar"
)

func TestParseClassAcceptsKnownNames(t *testing.T) {
	kind, err := parseClass("slr1")
	require.NoError(t, err)
	assert.Equal(t, grammar.TableKindSLR1, kind)
}

func TestParseClassRejectsUnknownName(t *testing.T) {
	_, err := parseClass("lr2")
	assert.Error(t, err)
}

func TestReadSpecificationParsesJSONFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "grammar.json")
	const doc = `{
		"Terminals": [{"IDs": ["NUM", "PLUS"]}],
		"NonTerminals": [{"ID": "E"}],
		"Productions": [{"LHS": "E", "Alts": [{"Symbols": ["E", "PLUS", "E"]}, {"Symbols": ["NUM"]}]}],
		"StartingProductions": ["E"]
	}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0600))

	spec, err := readSpecification(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"E"}, spec.StartingProductions)
	assert.Len(t, spec.Productions, 1)
}

func TestReadSpecificationRejectsMissingFile(t *testing.T) {
	_, err := readSpecification(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
