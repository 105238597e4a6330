package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"frigora/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVSafe(t *testing.T) {
	assert.Equal(t, "'=SUM(A1)", CSVSafe("=SUM(A1)"))
	assert.Equal(t, "'-1", CSVSafe("-1"))
	assert.Equal(t, "'@cmd", CSVSafe("@cmd"))
	assert.Equal(t, "Milk", CSVSafe("Milk"))
	assert.Equal(t, "", CSVSafe(""))
}

func TestWriteCSV(t *testing.T) {
	report := &core.Report{Rows: []core.ReportRow{
		{Index: 1, Name: "+Tofu", Category: core.CategoryProtein, Quantity: "2 pack", Location: "Fridge", ExpiresOn: "-", CreatedOn: "1/6/2025", Status: "-"},
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, report))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, core.ReportColumns, records[0])
	assert.Equal(t, []string{"1", "'+Tofu", "Protein", "2 pack", "Fridge", "-", "1/6/2025", "-"}, records[1])
}
