package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"patentdesk/internal/domain"
)

func TestParseRows(t *testing.T) {
	rows := [][]string{
		{"code", "name", "parent"},
		{"34", "Istanbul", "tr"},
		{"", "No code"},
		{"06", "Ankara", "TR"},
		{"34", "Duplicate", "TR"},
		{"35"},
	}

	items := parseRows(domain.RefState, rows)

	require.Len(t, items, 2)
	assert.Equal(t, domain.ReferenceItem{Kind: domain.RefState, Code: "34", Name: "Istanbul", ParentCode: "TR", SortOrder: 1}, items[0])
	assert.Equal(t, "06", items[1].Code)
	assert.Equal(t, 2, items[1].SortOrder)
}

func TestParseWorkbook_SkipsUnknownSheets(t *testing.T) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	require.NoError(t, f.SetSheetName("Sheet1", "Country"))
	require.NoError(t, f.SetSheetRow("Country", "A1", &[]interface{}{"code", "name"}))
	require.NoError(t, f.SetSheetRow("Country", "A2", &[]interface{}{"TR", "Turkey"}))
	require.NoError(t, f.SetSheetRow("Country", "A3", &[]interface{}{"DE", "Germany"}))

	_, err := f.NewSheet("notes")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("notes", "A2", &[]interface{}{"x", "y"}))

	items, err := parseWorkbook(f)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, domain.RefCountry, items[0].Kind)
	assert.Equal(t, "Germany", items[1].Name)
}
