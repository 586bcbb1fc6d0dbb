package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kwhaley/billrecon/internal/books"
	"github.com/kwhaley/billrecon/internal/config"
	"github.com/kwhaley/billrecon/internal/edi837"
	"github.com/kwhaley/billrecon/internal/model"
	"github.com/kwhaley/billrecon/internal/money"
	"github.com/kwhaley/billrecon/internal/store"
	"github.com/kwhaley/billrecon/internal/x12"
)

// Claims runs the claim-submission workflow for one 837 file:
// parse → persist claim documents → create invoices through the
// accounting API, carrying the remote invoice ids back into the store.
func Claims(ctx context.Context, st *store.Store, bk *books.Client, log zerolog.Logger, cfg *config.Config) (*model.ClaimsSummary, error) {
	totalStart := time.Now()
	batchID := uuid.New()

	log.Info().Str("file", cfg.FilePath).Msg("parsing claim submission file")
	parseStart := time.Now()
	claims, err := edi837.NewReader().ReadFile(cfg.FilePath)
	if err != nil {
		return nil, phaseErr("parse", err)
	}

	summary := &model.ClaimsSummary{
		FilePath:      cfg.FilePath,
		BatchID:       batchID.String(),
		Claims:        len(claims),
		TotalBilled:   money.Zero,
		DurationParse: time.Since(parseStart),
	}
	for _, c := range claims {
		summary.Charges += len(c.Charges)
		summary.TotalBilled = summary.TotalBilled.Add(c.Billed)
	}
	log.Info().
		Int("claims", summary.Claims).
		Int("charges", summary.Charges).
		Str("total_billed", money.Format(summary.TotalBilled)).
		Msg("claim submission file parsed")

	persistStart := time.Now()
	records := make([]model.ClaimRecord, len(claims))
	for i, c := range claims {
		records[i] = model.ClaimRecord{
			Claim:   c,
			ClaimID: claimID(c, i),
			BatchID: batchID.String(),
		}
		if err := st.Upsert(ctx, store.Claims, records[i].ClaimID, records[i], batchID); err != nil {
			return nil, phaseErr("persist", err)
		}
	}
	summary.DurationPersist = time.Since(persistStart)

	if cfg.DryRun || bk == nil {
		log.Info().Msg("dry run: skipping invoice creation")
		summary.DurationTotal = time.Since(totalStart)
		return summary, nil
	}

	postStart := time.Now()
	for i := range records {
		if err := invoiceClaim(ctx, st, bk, batchID, &records[i]); err != nil {
			return nil, phaseErr("post", err)
		}
		summary.InvoicesCreated++
	}
	summary.DurationPost = time.Since(postStart)
	summary.DurationTotal = time.Since(totalStart)

	log.Info().
		Int("invoices_created", summary.InvoicesCreated).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("claims pipeline complete")
	return summary, nil
}

// claimID builds a deterministic document id for a submitted claim.
func claimID(c model.Edi837Claim, ordinal int) string {
	return fmt.Sprintf("%s-%s-%s-%d",
		c.PayerID, x12.FormatDate(c.BilledDate), c.LastName, ordinal)
}

// invoiceClaim creates the invoice for one claim and stores its id.
func invoiceClaim(ctx context.Context, st *store.Store, bk *books.Client, batchID uuid.UUID, rec *model.ClaimRecord) error {
	payerName, err := payerName(ctx, st, rec.Claim.PayerID)
	if err != nil {
		return err
	}
	cust, err := bk.EnsureCustomer(ctx, payerName)
	if err != nil {
		return err
	}

	inv := books.Invoice{
		CustomerID:  cust.ID,
		Date:        x12.FormatDate(rec.Claim.BilledDate),
		Total:       rec.Claim.Billed,
		ExternalRef: rec.ClaimID,
	}
	for _, ch := range rec.Claim.Charges {
		inv.Lines = append(inv.Lines, books.InvoiceLine{
			ItemCode:    ch.BillingCode,
			ServiceDate: x12.FormatDate(ch.ServiceDate),
			Quantity:    ch.Units,
			Amount:      ch.Billed,
		})
	}

	created, err := bk.CreateInvoice(ctx, inv)
	if err != nil {
		return err
	}

	rec.InvoiceID = created.ID
	return st.Upsert(ctx, store.Claims, rec.ClaimID, *rec, batchID)
}

// payerName resolves a payer id against the imported payer catalog,
// falling back to the raw id when the catalog has no entry.
func payerName(ctx context.Context, st *store.Store, payerID string) (string, error) {
	var p model.Payer
	err := st.Get(ctx, store.Payers, payerID, &p)
	if err == nil {
		return p.Name, nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return payerID, nil
	}
	return "", err
}
