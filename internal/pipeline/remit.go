package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kwhaley/billrecon/internal/books"
	"github.com/kwhaley/billrecon/internal/config"
	"github.com/kwhaley/billrecon/internal/edi835"
	"github.com/kwhaley/billrecon/internal/model"
	"github.com/kwhaley/billrecon/internal/money"
	"github.com/kwhaley/billrecon/internal/reconcile"
	"github.com/kwhaley/billrecon/internal/store"
	"github.com/kwhaley/billrecon/internal/x12"
)

// Remit runs the remittance workflow for one 835 file:
// parse (with the full validation cascade) → persist payment and
// journal documents → post credit memos and payments to the accounting
// API. With DryRun set, the post phase is skipped.
func Remit(ctx context.Context, st *store.Store, bk *books.Client, log zerolog.Logger, cfg *config.Config) (*model.RemitSummary, error) {
	totalStart := time.Now()
	batchID := uuid.New()

	// Phase 1: Parse. The reader validates every sum before returning.
	log.Info().Str("file", cfg.FilePath).Msg("parsing remittance file")
	parseStart := time.Now()
	payments, err := edi835.NewReader().ReadFile(cfg.FilePath)
	if err != nil {
		return nil, phaseErr("parse", err)
	}
	parseDur := time.Since(parseStart)

	summary := &model.RemitSummary{
		FilePath:      cfg.FilePath,
		BatchID:       batchID.String(),
		Payments:      len(payments),
		TotalPaid:     money.Zero,
		DurationParse: parseDur,
	}
	for _, p := range payments {
		summary.TotalPaid = summary.TotalPaid.Add(p.Amount)
		summary.Claims += len(p.Claims)
		for _, cl := range p.Claims {
			summary.Charges += len(cl.Charges)
		}
	}
	log.Info().
		Int("payments", summary.Payments).
		Int("claims", summary.Claims).
		Int("charges", summary.Charges).
		Str("total_paid", money.Format(summary.TotalPaid)).
		Dur("duration", parseDur).
		Msg("remittance file reconciled")

	// Phase 2: Persist payment and journal documents.
	persistStart := time.Now()
	for _, p := range payments {
		record := model.PaymentRecord{
			Payment:     p,
			BatchID:     batchID.String(),
			ProcessedAt: time.Now().UTC(),
		}
		if err := st.Upsert(ctx, store.Payments, p.Reference, record, batchID); err != nil {
			return nil, phaseErr("persist", err)
		}

		entry, err := reconcile.BuildJournalEntry(p, cfg.Accounts)
		if err != nil {
			return nil, phaseErr("persist", err)
		}
		if err := st.Upsert(ctx, store.JournalEntries, p.Reference, entry, batchID); err != nil {
			return nil, phaseErr("persist", err)
		}
	}
	summary.DurationPersist = time.Since(persistStart)

	// Phase 3: Post to the accounting API.
	if cfg.DryRun || bk == nil {
		log.Info().Msg("dry run: skipping accounting post")
		summary.DurationTotal = time.Since(totalStart)
		return summary, nil
	}

	postStart := time.Now()
	for i := range payments {
		credited, err := postPayment(ctx, st, bk, log, batchID, &payments[i])
		if err != nil {
			return nil, phaseErr("post", err)
		}
		summary.InvoicesCredited += credited
	}
	summary.DurationPost = time.Since(postStart)
	summary.DurationTotal = time.Since(totalStart)

	log.Info().
		Int("invoices_credited", summary.InvoicesCredited).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("remittance pipeline complete")
	return summary, nil
}

// postPayment records one payment remotely: credit memos for each
// claim's contractual write-off against its known invoice, then the
// payment itself. Returns the number of invoices credited.
func postPayment(ctx context.Context, st *store.Store, bk *books.Client, log zerolog.Logger, batchID uuid.UUID, p *model.Edi835Payment) (int, error) {
	if _, err := bk.EnsureCustomer(ctx, p.PayerName); err != nil {
		return 0, err
	}

	var (
		invoiceIDs []string
		credited   int
	)
	for _, cl := range p.Claims {
		invoiceID, err := lookupInvoiceID(ctx, st, cl)
		if err != nil {
			return credited, err
		}
		if invoiceID == "" {
			log.Warn().
				Str("client", cl.ClientName()).
				Msg("no submitted claim on file for remitted claim; skipping credit memo")
			continue
		}
		invoiceIDs = append(invoiceIDs, invoiceID)

		contractual := money.Zero
		for _, ch := range cl.Charges {
			contractual = contractual.Add(ch.ContractualAdjustment)
		}
		if !contractual.IsZero() {
			_, err := bk.CreateCreditMemo(ctx, books.CreditMemo{
				InvoiceID: invoiceID,
				Date:      x12.FormatDate(p.Date),
				Amount:    contractual,
				Reason:    "contractual adjustment",
			})
			if err != nil {
				return credited, err
			}
			credited++
		}
	}

	created, err := bk.CreatePayment(ctx, books.Payment{
		Reference:  p.Reference,
		Date:       x12.FormatDate(p.Date),
		Amount:     p.Amount,
		InvoiceIDs: invoiceIDs,
	})
	if err != nil {
		return credited, err
	}

	record := model.PaymentRecord{
		Payment:        *p,
		BooksPaymentID: created.ID,
		BatchID:        batchID.String(),
		ProcessedAt:    time.Now().UTC(),
	}
	return credited, st.Upsert(ctx, store.Payments, p.Reference, record, batchID)
}

// lookupInvoiceID finds the invoice created when the claim was
// submitted, matched by client name and the remitted billing codes.
func lookupInvoiceID(ctx context.Context, st *store.Store, cl model.Edi835ClaimPayment) (string, error) {
	filter := map[string]any{
		"claim": map[string]any{
			"first_name": cl.FirstName,
			"last_name":  cl.LastName,
		},
	}
	docs, err := st.Find(ctx, store.Claims, filter)
	if err != nil {
		return "", err
	}
	for _, doc := range docs {
		var rec model.ClaimRecord
		if err := json.Unmarshal(doc, &rec); err != nil {
			return "", err
		}
		if rec.InvoiceID != "" && chargesOverlap(rec.Claim, cl) {
			return rec.InvoiceID, nil
		}
	}
	return "", nil
}

// chargesOverlap reports whether any submitted charge matches a
// remitted charge on billing code and service date.
func chargesOverlap(submitted model.Edi837Claim, remitted model.Edi835ClaimPayment) bool {
	for _, sc := range submitted.Charges {
		for _, rc := range remitted.Charges {
			if sc.BillingCode != rc.BillingCode {
				continue
			}
			if rc.ServiceDate.IsZero() || sc.ServiceDate.Equal(rc.ServiceDate) {
				return true
			}
		}
	}
	return false
}
