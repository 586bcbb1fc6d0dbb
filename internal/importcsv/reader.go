// Package importcsv loads the flat CSV import files (appointments,
// charge lines, payer and service catalogs). Columns are addressed by
// header name, case-insensitively. Unlike the EDI core, malformed rows
// are recoverable: they are skipped and counted, and the operator fixes
// the export and re-runs.
package importcsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kwhaley/billrecon/internal/model"
	"github.com/kwhaley/billrecon/internal/money"
)

// Date formats seen in practice-management exports.
var dateFormats = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"20060102",
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// rowReader walks a CSV file and resolves columns by header name.
type rowReader struct {
	csv  *csv.Reader
	idx  map[string]int
	line int
}

func openRows(path string, required []string) (*os.File, *rowReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open csv %q: %w", path, err)
	}

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		f.Close()
		if errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("csv %q: empty file", path)
		}
		return nil, nil, fmt.Errorf("read header from %q: %w", path, err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			f.Close()
			return nil, nil, fmt.Errorf("csv %q: missing required header %q", path, col)
		}
	}

	return f, &rowReader{csv: r, idx: idx, line: 1}, nil
}

// next reads the next record, or io.EOF.
func (r *rowReader) next() ([]string, error) {
	rec, err := r.csv.Read()
	if err != nil {
		return nil, err
	}
	r.line++
	return rec, nil
}

// get returns the trimmed value under a header name, "" when absent.
func (r *rowReader) get(rec []string, col string) string {
	i, ok := r.idx[col]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// LoadAppointments reads the appointment import file.
func LoadAppointments(path string, log zerolog.Logger) ([]model.Appointment, int64, error) {
	f, r, err := openRows(path, []string{"firstname", "lastname", "payerid", "servicecode", "date", "units"})
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	var (
		out     []model.Appointment
		skipped int64
	)
	for {
		rec, err := r.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, skipped, fmt.Errorf("read csv %q at line %d: %w", path, r.line+1, err)
		}

		date, derr := parseDate(r.get(rec, "date"))
		units, uerr := strconv.Atoi(r.get(rec, "units"))
		if derr != nil || uerr != nil {
			skipped++
			log.Warn().Int("line", r.line).Msg("skipping malformed appointment row")
			continue
		}
		out = append(out, model.Appointment{
			ClientFirstName: r.get(rec, "firstname"),
			ClientLastName:  r.get(rec, "lastname"),
			PayerID:         r.get(rec, "payerid"),
			ServiceCode:     r.get(rec, "servicecode"),
			Date:            date,
			Units:           units,
		})
	}
	return out, skipped, nil
}

// LoadCharges reads the charge-line import file.
func LoadCharges(path string, log zerolog.Logger) ([]model.ChargeLine, int64, error) {
	f, r, err := openRows(path, []string{"firstname", "lastname", "billingcode", "servicedate", "billed", "units"})
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	var (
		out     []model.ChargeLine
		skipped int64
	)
	for {
		rec, err := r.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, skipped, fmt.Errorf("read csv %q at line %d: %w", path, r.line+1, err)
		}

		date, derr := parseDate(r.get(rec, "servicedate"))
		billed, berr := money.Parse(r.get(rec, "billed"))
		units, uerr := strconv.Atoi(r.get(rec, "units"))
		if derr != nil || berr != nil || uerr != nil {
			skipped++
			log.Warn().Int("line", r.line).Msg("skipping malformed charge row")
			continue
		}
		out = append(out, model.ChargeLine{
			ClientFirstName: r.get(rec, "firstname"),
			ClientLastName:  r.get(rec, "lastname"),
			BillingCode:     r.get(rec, "billingcode"),
			ServiceDate:     date,
			Billed:          billed,
			Units:           units,
		})
	}
	return out, skipped, nil
}

// LoadPayers reads the payer catalog file.
func LoadPayers(path string, log zerolog.Logger) ([]model.Payer, int64, error) {
	f, r, err := openRows(path, []string{"payerid", "name"})
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	var (
		out     []model.Payer
		skipped int64
	)
	for {
		rec, err := r.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, skipped, fmt.Errorf("read csv %q at line %d: %w", path, r.line+1, err)
		}
		id, name := r.get(rec, "payerid"), r.get(rec, "name")
		if id == "" || name == "" {
			skipped++
			log.Warn().Int("line", r.line).Msg("skipping payer row with empty id or name")
			continue
		}
		out = append(out, model.Payer{PayerID: id, Name: name})
	}
	return out, skipped, nil
}

// LoadServices reads the service catalog file.
func LoadServices(path string, log zerolog.Logger) ([]model.ServiceItem, int64, error) {
	f, r, err := openRows(path, []string{"billingcode", "description", "unitrate"})
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	var (
		out     []model.ServiceItem
		skipped int64
	)
	for {
		rec, err := r.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, skipped, fmt.Errorf("read csv %q at line %d: %w", path, r.line+1, err)
		}
		rate, rerr := money.Parse(r.get(rec, "unitrate"))
		code := r.get(rec, "billingcode")
		if rerr != nil || code == "" {
			skipped++
			log.Warn().Int("line", r.line).Msg("skipping malformed service row")
			continue
		}
		out = append(out, model.ServiceItem{
			BillingCode: code,
			Description: r.get(rec, "description"),
			UnitRate:    rate,
		})
	}
	return out, skipped, nil
}
