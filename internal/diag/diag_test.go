package diag

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errSample = errors.New("sample cause")

func TestDiagnosticErrorFormatsWithoutPosition(t *testing.T) {
	d := &Diagnostic{Kind: KindDeclaration, Severity: SeverityError, Cause: errSample}
	assert.Equal(t, "error: sample cause", d.Error())
}

func TestDiagnosticErrorFormatsWithDetail(t *testing.T) {
	d := &Diagnostic{Kind: KindReference, Severity: SeverityWarning, Cause: errSample, Detail: "on FOO"}
	assert.Equal(t, "warning: sample cause: on FOO", d.Error())
}

func TestDiagnosticErrorFormatsWithPosition(t *testing.T) {
	d := &Diagnostic{Kind: KindGrammar, Severity: SeverityError, Cause: errSample, Row: 3, Col: 7}
	assert.Equal(t, "3:7: error: sample cause", d.Error())
}

func TestBagPreservesAppendOrder(t *testing.T) {
	bag := &Bag{}
	bag.Errorf(KindDeclaration, errSample, "first")
	bag.Warnf(KindPrecedence, errSample, "second")
	bag.Errorf(KindGrammar, errSample, "third")

	all := bag.All()
	assert.Len(t, all, 3)
	assert.Equal(t, "first", all[0].Detail)
	assert.Equal(t, "second", all[1].Detail)
	assert.Equal(t, "third", all[2].Detail)
}

func TestBagSplitsErrorsAndWarnings(t *testing.T) {
	bag := &Bag{}
	bag.Errorf(KindDeclaration, errSample, "bad declaration")
	bag.Warnf(KindConflictResidue, errSample, "resolved conflict")

	assert.True(t, bag.HasErrors())
	assert.Len(t, bag.Errors(), 1)
	assert.Len(t, bag.Warnings(), 1)
	assert.Equal(t, "bad declaration", bag.Errors()[0].Detail)
	assert.Equal(t, "resolved conflict", bag.Warnings()[0].Detail)
}

func TestBagWithNoErrorsReportsClean(t *testing.T) {
	bag := &Bag{}
	bag.Warnf(KindReference, errSample, "just a warning")

	assert.False(t, bag.HasErrors())
	assert.Empty(t, bag.Errors())
}
