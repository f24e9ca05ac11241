package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/symptomtracker/internal"
)

func TestPrintSymptoms(t *testing.T) {
	var buf bytes.Buffer
	err := printSymptoms(&buf, []internal.SymptomRecord{
		{Name: "Headache", Severity: 4, Date: "2024-01-02", Category: "Pain", CustomFields: internal.CustomFields{
			"water": internal.NumberValue(2), "slept_well": internal.SelectValue("No"),
		}},
		{Name: "Nausea", Severity: 1, Date: "2024-01-01"},
	})
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "4 (moderate)")
	assert.Contains(t, out, "1 (mild)")
	assert.Contains(t, out, "slept_well=No water=2")
}
