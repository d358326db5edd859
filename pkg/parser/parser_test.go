package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/salesops/sales-ingress/pkg/model"
)

func writeTempInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales_data.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadLines(t *testing.T) {
	p := NewParser(zap.NewNop())

	input := "transaction_id|customer_id|product_id|region|quantity|unit_price|timestamp\n" +
		"T001|C001|P101|North|5|100.00|2024-01-15\n" +
		"\n" +
		"T002|C002|P102|South|2|50.00|2024-01-16\n"

	lines, err := p.ReadLines(writeTempInput(t, input))
	require.NoError(t, err)

	require.Len(t, lines, 2)
	assert.Equal(t, 2, lines[0].Number)
	assert.Equal(t, "T001|C001|P101|North|5|100.00|2024-01-15", lines[0].Text)
	assert.Equal(t, 4, lines[1].Number)
}

func TestReadLines_NoHeader(t *testing.T) {
	p := NewParser(zap.NewNop())

	lines, err := p.ReadLines(writeTempInput(t, "T001|C001|P101|North|5|100.00|2024-01-15\n"))
	require.NoError(t, err)

	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Number)
}

func TestReadLines_MissingFile(t *testing.T) {
	p := NewParser(zap.NewNop())

	_, err := p.ReadLines(filepath.Join(t.TempDir(), "does-not-exist.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open input file")
}

func TestReadLines_EmptyFile(t *testing.T) {
	p := NewParser(zap.NewNop())

	lines, err := p.ReadLines(writeTempInput(t, ""))
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestParseLine(t *testing.T) {
	p := NewParser(zap.NewNop())

	tests := []struct {
		name       string
		text       string
		wantReject bool
		wantDetail string
	}{
		{
			name: "valid line",
			text: "T001|C001|P101|North|5|100.00|2024-01-15",
		},
		{
			name: "whitespace around fields is trimmed",
			text: " T001 | C001 |P101| North |5|100.00|2024-01-15",
		},
		{
			name:       "too few fields",
			text:       "T001|C001|P101|North|5|100.00",
			wantReject: true,
			wantDetail: "expected 7 fields, got 6",
		},
		{
			name:       "too many fields",
			text:       "T001|C001|P101|North|5|100.00|2024-01-15|extra",
			wantReject: true,
			wantDetail: "expected 7 fields, got 8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate, rejection := p.ParseLine(model.RawLine{Number: 3, Text: tt.text})

			if tt.wantReject {
				require.Nil(t, candidate)
				require.NotNil(t, rejection)
				assert.Equal(t, model.ReasonMissingField, rejection.Reason)
				assert.Equal(t, tt.wantDetail, rejection.Detail)
				assert.Equal(t, 3, rejection.Line.Number)
				return
			}

			require.NotNil(t, candidate)
			require.Nil(t, rejection)
			assert.Equal(t, "T001", candidate.TransactionID)
			assert.Equal(t, "C001", candidate.CustomerID)
			assert.Equal(t, "North", candidate.Region)
		})
	}
}

func TestParseAll_PreservesOrder(t *testing.T) {
	p := NewParser(zap.NewNop())

	lines := []model.RawLine{
		{Number: 1, Text: "T001|C001|P101|North|5|100.00|2024-01-15"},
		{Number: 2, Text: "broken"},
		{Number: 3, Text: "T002|C002|P102|South|2|50.00|2024-01-16"},
	}

	candidates, rejections := p.ParseAll(lines)

	require.Len(t, candidates, 2)
	require.Len(t, rejections, 1)
	assert.Equal(t, "T001", candidates[0].TransactionID)
	assert.Equal(t, "T002", candidates[1].TransactionID)
	assert.Equal(t, 2, rejections[0].Line.Number)
}
