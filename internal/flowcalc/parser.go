package flowcalc

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"flowcellcli/internal/config"
	apperrors "flowcellcli/internal/errors"
	"flowcellcli/pkg/contracts/domain"
)

// ParseFile reads the samples of one raw data file.
func ParseFile(ctx context.Context, path string, cols config.ColumnConfig, logger *slog.Logger) ([]domain.Sample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()

	samples, err := Parse(f, cols)
	if err != nil {
		var ae *apperrors.AppError
		if errors.As(err, &ae) {
			ae.WithContext("file", path)
		}
		return nil, err
	}

	if logger != nil {
		logger.DebugContext(ctx, "Raw data parsed",
			slog.String("file", path),
			slog.Int("samples", len(samples)))
	}
	return samples, nil
}

// Parse reads tab or comma separated samples. The first line is the header;
// columns are located by name, case-insensitively, so column order is free.
func Parse(r io.Reader, cols config.ColumnConfig) ([]domain.Sample, error) {
	br := bufio.NewReader(r)

	headerLine, err := br.ReadString('\n')
	if err != nil && (err != io.EOF || strings.TrimSpace(headerLine) == "") {
		return nil, apperrors.NewParsingError("missing header row", err)
	}

	delim := ','
	if strings.Contains(headerLine, "\t") {
		delim = '\t'
	}

	reader := csv.NewReader(io.MultiReader(strings.NewReader(headerLine), br))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read header row", err)
	}

	columnMap, err := mapColumns(header, cols)
	if err != nil {
		return nil, err
	}

	var samples []domain.Sample
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError("malformed data row", err)
		}
		if isBlank(row) {
			continue
		}

		line, _ := reader.FieldPos(0)
		s, err := parseRow(row, columnMap)
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("line %d", line), err)
		}
		samples = append(samples, s)
	}

	if len(samples) == 0 {
		return nil, apperrors.NewParsingError("no data rows", nil)
	}
	return samples, nil
}

// mapColumns finds the position of every required column in the header
func mapColumns(header []string, cols config.ColumnConfig) (map[string]int, error) {
	want := map[string]string{
		"time":    cols.Time,
		"flow":    cols.Flow,
		"current": cols.Current,
		"voltage": cols.Voltage,
		"cycle":   cols.Cycle,
	}

	columnMap := make(map[string]int, len(want))
	for j, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for key, name := range want {
			if _, done := columnMap[key]; !done && h == strings.ToLower(name) {
				columnMap[key] = j
			}
		}
	}

	var missing []string
	for _, key := range []string{"time", "flow", "current", "voltage", "cycle"} {
		if _, ok := columnMap[key]; !ok {
			missing = append(missing, want[key])
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("missing columns %s in header %v", strings.Join(missing, ", "), header), nil)
	}
	return columnMap, nil
}

func parseRow(row []string, columnMap map[string]int) (domain.Sample, error) {
	get := func(key string) (float64, error) {
		idx := columnMap[key]
		if idx >= len(row) {
			return 0, fmt.Errorf("column %s missing", key)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64)
		if err != nil {
			return 0, fmt.Errorf("column %s: %w", key, err)
		}
		return v, nil
	}

	var s domain.Sample
	var err error
	if s.Time, err = get("time"); err != nil {
		return s, err
	}
	if s.Flow, err = get("flow"); err != nil {
		return s, err
	}
	if s.Current, err = get("current"); err != nil {
		return s, err
	}
	if s.Voltage, err = get("voltage"); err != nil {
		return s, err
	}
	cycle, err := get("cycle")
	if err != nil {
		return s, err
	}
	// some loggers write the cycle counter as "3.0"
	if cycle != math.Trunc(cycle) {
		return s, fmt.Errorf("column cycle: %v is not an integer", cycle)
	}
	s.Cycle = int(cycle)
	return s, nil
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
