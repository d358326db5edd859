package parser

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/salesops/sales-ingress/pkg/model"
)

// FieldCount is the number of pipe-delimited fields in the input schema:
// transaction_id|customer_id|product_id|region|quantity|unit_price|timestamp
const FieldCount = 7

// Parser turns the raw input file into candidates for validation.
// Parsing is total: every data line yields either a candidate or a
// structural rejection, never silence.
type Parser struct {
	logger *zap.Logger
}

// NewParser creates a new parser
func NewParser(logger *zap.Logger) *Parser {
	return &Parser{logger: logger}
}

// ReadLines reads the input file and returns its data lines with their
// original 1-based line numbers. Empty lines are skipped. A header row
// (first field "transaction_id", case-insensitive) is detected and
// skipped rather than assumed.
//
// A missing or unreadable file is returned as an error. A file with no
// data lines yields an empty slice; the caller decides whether that is
// fatal.
func (p *Parser) ReadLines(path string) ([]model.RawLine, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file %s: %w", path, err)
	}
	defer file.Close()

	var lines []model.RawLine
	scanner := bufio.NewScanner(file)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		if lineNum == 1 && isHeader(text) {
			p.logger.Debug("Skipping header row", zap.String("line", text))
			continue
		}

		lines = append(lines, model.RawLine{Number: lineNum, Text: text})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input file %s: %w", path, err)
	}

	p.logger.Info("Read input file",
		zap.String("path", path),
		zap.Int("dataLines", len(lines)))

	return lines, nil
}

// ParseLine splits a raw line against the fixed schema. Exactly one of
// the return values is non-nil.
func (p *Parser) ParseLine(line model.RawLine) (*model.Candidate, *model.Rejection) {
	fields := strings.Split(line.Text, "|")
	if len(fields) != FieldCount {
		return nil, &model.Rejection{
			Line:   line,
			Reason: model.ReasonMissingField,
			Detail: fmt.Sprintf("expected %d fields, got %d", FieldCount, len(fields)),
		}
	}

	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	return &model.Candidate{
		Line:          line,
		TransactionID: fields[0],
		CustomerID:    fields[1],
		ProductID:     fields[2],
		Region:        fields[3],
		Quantity:      fields[4],
		UnitPrice:     fields[5],
		Timestamp:     fields[6],
	}, nil
}

// ParseAll parses every line, preserving input order in both outputs.
func (p *Parser) ParseAll(lines []model.RawLine) ([]model.Candidate, []model.Rejection) {
	candidates := make([]model.Candidate, 0, len(lines))
	var rejections []model.Rejection

	for _, line := range lines {
		candidate, rejection := p.ParseLine(line)
		if rejection != nil {
			p.logger.Debug("Structural parse failure",
				zap.Int("line", line.Number),
				zap.String("detail", rejection.Detail))
			rejections = append(rejections, *rejection)
			continue
		}
		candidates = append(candidates, *candidate)
	}

	return candidates, rejections
}

// isHeader reports whether a line looks like the schema header row.
func isHeader(text string) bool {
	fields := strings.Split(text, "|")
	return strings.EqualFold(strings.TrimSpace(fields[0]), "transaction_id")
}
