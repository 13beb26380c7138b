package export

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/pitchforge/pitchforge/internal/finmodel"
)

func TestWorkbookSheets(t *testing.T) {
	f, err := Workbook(finmodel.DefaultModel())
	require.NoError(t, err)

	require.Len(t, f.Sheets, 4)
	for _, name := range []string{"收入结构", "成本结构", "财务预测", "关键指标"} {
		_, ok := f.Sheet[name]
		assert.True(t, ok, "missing sheet %s", name)
	}
}

func TestWorkbookProjectionRows(t *testing.T) {
	fm := finmodel.DefaultModel()
	f, err := Workbook(fm)
	require.NoError(t, err)

	sheet := f.Sheet["财务预测"]
	// Header plus one row per projection year.
	require.Len(t, sheet.Rows, 4)
	assert.Equal(t, "年份", sheet.Rows[0].Cells[0].String())

	year1 := sheet.Rows[1]
	revenue, err := year1.Cells[1].Float()
	require.NoError(t, err)
	assert.Equal(t, float64(300), revenue)
	assert.Equal(t, "否", year1.Cells[5].String())

	year2 := sheet.Rows[2]
	assert.Equal(t, "是", year2.Cells[5].String())
}

func TestWorkbookSummary(t *testing.T) {
	f, err := Workbook(finmodel.DefaultModel())
	require.NoError(t, err)

	sheet := f.Sheet["关键指标"]
	assert.Equal(t, "LTV（元）", sheet.Rows[1].Cells[0].String())
	ltv, err := sheet.Rows[1].Cells[1].Float()
	require.NoError(t, err)
	assert.Equal(t, float64(5000), ltv)
}

func TestWorkbookNilModel(t *testing.T) {
	_, err := Workbook(nil)
	assert.Error(t, err)
}

func TestWriteRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, finmodel.DefaultModel()))

	f, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, f.Sheets, 4)
	assert.Equal(t, "订阅收入", f.Sheet["收入结构"].Rows[1].Cells[0].String())
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.xlsx")
	require.NoError(t, WriteFile(path, finmodel.DefaultModel()))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 4)
}
