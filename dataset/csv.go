package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/worklens-org/worklens/schema"
)

// ============================================================================
// CSV DECODING — Raw bytes to typed records, mapped through the registry
// ============================================================================
// The caller reads the CSV from wherever it lives (upstream host, disk);
// the decoder only turns bytes into records. Header resolution is the
// registry's job, so a source with reordered or extra columns still decodes.
// Rows that cannot carry their required values are skipped, never zeroed.
// ============================================================================

// Decoder decodes source CSVs against a registry's table shapes.
type Decoder struct {
	reg *schema.Registry
}

// NewDecoder builds a Decoder for the given registry.
func NewDecoder(reg *schema.Registry) Decoder { return Decoder{reg: reg} }

// Tasks decodes the task metadata table.
func (d Decoder) Tasks(data []byte) ([]TaskRecord, error) {
	var out []TaskRecord
	err := d.decode(data, schema.TableTasks, func(row []string, idx map[string]int) {
		rec := TaskRecord{
			TaskID:     cell(row, idx, "task_id"),
			Task:       cell(row, idx, "task"),
			Occupation: cell(row, idx, "occupation"),
			SOCCode:    cell(row, idx, "soc_code"),
			Domain:     cell(row, idx, "domain"),
			Category:   cell(row, idx, "task_category"),
		}
		if rec.TaskID == "" {
			return
		}
		out = append(out, rec)
	})
	return out, err
}

// Desires decodes the worker desire table.
func (d Decoder) Desires(data []byte) ([]DesireRecord, error) {
	var out []DesireRecord
	err := d.decode(data, schema.TableDesires, func(row []string, idx map[string]int) {
		desire, ok := d.rating(row, idx, "desire_rating")
		id := cell(row, idx, "task_id")
		if id == "" || !ok {
			return
		}
		out = append(out, DesireRecord{
			TaskID:      id,
			WorkerID:    cell(row, idx, "worker_id"),
			Desire:      desire,
			JobSecurity: d.optRating(row, idx, "job_security_rating"),
			Enjoyment:   d.optRating(row, idx, "enjoyment_rating"),
		})
	})
	return out, err
}

// Capabilities decodes the expert capability table.
func (d Decoder) Capabilities(data []byte) ([]CapabilityRecord, error) {
	var out []CapabilityRecord
	err := d.decode(data, schema.TableCapabilities, func(row []string, idx map[string]int) {
		capability, ok := d.rating(row, idx, "capability_rating")
		id := cell(row, idx, "task_id")
		if id == "" || !ok {
			return
		}
		out = append(out, CapabilityRecord{
			TaskID:     id,
			ExpertID:   cell(row, idx, "expert_id"),
			Capability: capability,
			Confidence: d.optRating(row, idx, "confidence"),
		})
	})
	return out, err
}

// decode runs the shared header-map-then-rows loop. Malformed rows are
// skipped; a header that fails registry validation fails the whole table.
func (d Decoder) decode(data []byte, table string, consume func(row []string, idx map[string]int)) error {
	tbl, err := d.reg.Table(table)
	if err != nil {
		return err
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read CSV headers: %w", err)
	}
	idx, err := tbl.MapHeaders(headers)
	if err != nil {
		return err
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		consume(row, idx)
	}
	return nil
}

// rating parses a required rating cell. ok is false when the cell is
// missing, unparseable, or outside the registry's scale.
func (d Decoder) rating(row []string, idx map[string]int, key string) (float64, bool) {
	v, err := strconv.ParseFloat(cell(row, idx, key), 64)
	if err != nil || !d.reg.Scale.Contains(v) {
		return 0, false
	}
	return v, true
}

// optRating parses an optional rating cell, NaN when absent or invalid.
func (d Decoder) optRating(row []string, idx map[string]int, key string) float64 {
	if v, ok := d.rating(row, idx, key); ok {
		return v
	}
	return math.NaN()
}

func cell(row []string, idx map[string]int, key string) string {
	pos, ok := idx[key]
	if !ok || pos >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[pos])
}
