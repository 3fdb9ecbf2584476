package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/xuri/excelize/v2"
)

func sampleResult() *domain.AggregationResult {
	undefined := domain.Delta{}
	return &domain.AggregationResult{
		Kind:        domain.KindTopN,
		Periods:     []string{"Janeiro 2024"},
		Total:       decimal.RequireFromString("1500.5"),
		RecordCount: 3,
		TotalDelta:  &undefined,
		Ranking: []domain.RankedGroup{
			{Position: 1, Key: "PDV2", Total: decimal.NewFromInt(900), Count: 2},
			{Position: 2, Key: "PDV1", Total: decimal.RequireFromString("600.5"), Count: 1},
		},
		Daily: []domain.DailyTotal{
			{Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Total: decimal.NewFromInt(600)},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    Format
		wantErr bool
	}{
		{name: "Padrão é CSV", value: "", want: FormatCSV},
		{name: "XLSX em maiúsculas", value: "XLSX", want: FormatXLSX},
		{name: "Formato desconhecido", value: "pdf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.value)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRows(t *testing.T) {
	rows := Rows(sampleResult())
	require.Len(t, rows, 4)

	assert.Equal(t, Row{Section: "total", Period: "Janeiro 2024", Total: "1500.50", Count: "3"}, rows[0])
	assert.Equal(t, "ranking", rows[1].Section)
	assert.Equal(t, "1", rows[1].Position)
	assert.Equal(t, "PDV2", rows[1].Key)
	assert.Equal(t, "2024-01-03", rows[3].Date)
}

func TestWrite_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, sampleResult()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, strings.Join(headers, ";"), lines[0])
	assert.Equal(t, "ranking;Janeiro 2024;;PDV2;1;900.00;2;", lines[2])
}

func TestWrite_XLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatXLSX, sampleResult()))

	file, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer file.Close()

	rows, err := file.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, headers, rows[0])
	assert.Equal(t, "PDV1", rows[3][3])

	value, err := file.GetCellValue(sheetName, "E3", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "1", value)
}

func TestFormat_Filename(t *testing.T) {
	assert.Equal(t, "top_n-janeiro_2024.xlsx", FormatXLSX.Filename(sampleResult()))
	assert.Equal(t, "text/csv; charset=utf-8", FormatCSV.ContentType())
}

func TestWrite_UnknownFormat(t *testing.T) {
	assert.ErrorIs(t, Write(&bytes.Buffer{}, Format("pdf"), sampleResult()), ErrUnknownFormat)
}
