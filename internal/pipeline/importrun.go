package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kwhaley/billrecon/internal/config"
	"github.com/kwhaley/billrecon/internal/importcsv"
	"github.com/kwhaley/billrecon/internal/model"
	"github.com/kwhaley/billrecon/internal/store"
	"github.com/kwhaley/billrecon/internal/x12"
)

// Import kinds accepted by the import workflow.
const (
	KindAppointments = "appointments"
	KindCharges      = "charges"
	KindPayers       = "payers"
	KindServices     = "services"
)

// Import loads one flat CSV file into its document collection.
func Import(ctx context.Context, st *store.Store, log zerolog.Logger, cfg *config.Config) (*model.ImportSummary, error) {
	totalStart := time.Now()
	batchID := uuid.New()

	summary := &model.ImportSummary{
		FilePath: cfg.FilePath,
		Kind:     cfg.ImportKind,
	}

	var err error
	switch cfg.ImportKind {
	case KindAppointments:
		err = importAppointments(ctx, st, log, cfg.FilePath, batchID, summary)
	case KindCharges:
		err = importCharges(ctx, st, log, cfg.FilePath, batchID, summary)
	case KindPayers:
		err = importPayers(ctx, st, log, cfg.FilePath, batchID, summary)
	case KindServices:
		err = importServices(ctx, st, log, cfg.FilePath, batchID, summary)
	default:
		return nil, phaseErr("read", fmt.Errorf("unknown import kind %q", cfg.ImportKind))
	}
	if err != nil {
		return nil, err
	}

	summary.DurationTotal = time.Since(totalStart)
	log.Info().
		Str("kind", summary.Kind).
		Int64("imported", summary.RowsImported).
		Int64("skipped", summary.RowsSkipped).
		Dur("duration", summary.DurationTotal).
		Msg("import complete")
	return summary, nil
}

func importAppointments(ctx context.Context, st *store.Store, log zerolog.Logger, path string, batchID uuid.UUID, summary *model.ImportSummary) error {
	rows, skipped, err := importcsv.LoadAppointments(path, log)
	if err != nil {
		return phaseErr("read", err)
	}
	summary.RowsSkipped = skipped
	summary.RowsRead = skipped + int64(len(rows))
	for _, row := range rows {
		id := fmt.Sprintf("%s-%s-%s-%s", row.ClientLastName, row.ClientFirstName,
			x12.FormatDate(row.Date), row.ServiceCode)
		if err := st.Upsert(ctx, store.Appointments, id, row, batchID); err != nil {
			return phaseErr("persist", err)
		}
		summary.RowsImported++
	}
	return nil
}

func importCharges(ctx context.Context, st *store.Store, log zerolog.Logger, path string, batchID uuid.UUID, summary *model.ImportSummary) error {
	rows, skipped, err := importcsv.LoadCharges(path, log)
	if err != nil {
		return phaseErr("read", err)
	}
	summary.RowsSkipped = skipped
	summary.RowsRead = skipped + int64(len(rows))
	for _, row := range rows {
		id := fmt.Sprintf("%s-%s-%s-%s", row.ClientLastName, row.ClientFirstName,
			x12.FormatDate(row.ServiceDate), row.BillingCode)
		if err := st.Upsert(ctx, store.Charges, id, row, batchID); err != nil {
			return phaseErr("persist", err)
		}
		summary.RowsImported++
	}
	return nil
}

func importPayers(ctx context.Context, st *store.Store, log zerolog.Logger, path string, batchID uuid.UUID, summary *model.ImportSummary) error {
	rows, skipped, err := importcsv.LoadPayers(path, log)
	if err != nil {
		return phaseErr("read", err)
	}
	summary.RowsSkipped = skipped
	summary.RowsRead = skipped + int64(len(rows))
	for _, row := range rows {
		if err := st.Upsert(ctx, store.Payers, row.PayerID, row, batchID); err != nil {
			return phaseErr("persist", err)
		}
		summary.RowsImported++
	}
	return nil
}

func importServices(ctx context.Context, st *store.Store, log zerolog.Logger, path string, batchID uuid.UUID, summary *model.ImportSummary) error {
	rows, skipped, err := importcsv.LoadServices(path, log)
	if err != nil {
		return phaseErr("read", err)
	}
	summary.RowsSkipped = skipped
	summary.RowsRead = skipped + int64(len(rows))
	for _, row := range rows {
		if err := st.Upsert(ctx, store.Services, row.BillingCode, row, batchID); err != nil {
			return phaseErr("persist", err)
		}
		summary.RowsImported++
	}
	return nil
}
