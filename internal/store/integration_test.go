package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kwhaley/billrecon/internal/logging"
	"github.com/kwhaley/billrecon/internal/model"
	"github.com/kwhaley/billrecon/internal/money"
	"github.com/kwhaley/billrecon/internal/store"
)

const (
	testPort     = 15433
	testDB       = "recontest"
	testUser     = "postgres"
	testPassword = "postgres"
)

var (
	testDSN string
	pg      *embeddedpostgres.EmbeddedPostgres
)

func TestMain(m *testing.M) {
	testDSN = fmt.Sprintf("postgresql://%s:%s@localhost:%d/%s?sslmode=disable",
		testUser, testPassword, testPort, testDB)

	pg = embeddedpostgres.NewDatabase(
		embeddedpostgres.DefaultConfig().
			Port(uint32(testPort)).
			Database(testDB).
			Username(testUser).
			Password(testPassword).
			Version(embeddedpostgres.V16).
			RuntimePath(filepath.Join(os.TempDir(), "billrecon-store-pg")).
			StartTimeout(30*time.Second),
	)

	if err := pg.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start embedded postgres: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	if err := pg.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to stop embedded postgres: %v\n", err)
	}

	os.Exit(code)
}

// setupStore connects, resets the schema, and applies migrations.
func setupStore(t *testing.T) (*pgxpool.Pool, *store.Store) {
	t.Helper()
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, testDSN)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if _, err := pool.Exec(ctx, "DROP SCHEMA IF EXISTS recon CASCADE"); err != nil {
		t.Fatalf("drop schema: %v", err)
	}

	log := logging.Setup("text", false)
	if err := store.ApplyMigrations(ctx, pool, log); err != nil {
		pool.Close()
		t.Fatalf("migrations: %v", err)
	}

	t.Cleanup(func() { pool.Close() })
	return pool, store.New(pool)
}

func TestMigrations_Idempotent(t *testing.T) {
	pool, _ := setupStore(t)
	ctx := context.Background()

	// Re-applying on an already-migrated database must be a no-op.
	log := logging.Setup("text", false)
	if err := store.ApplyMigrations(ctx, pool, log); err != nil {
		t.Fatalf("second ApplyMigrations: %v", err)
	}

	var count int64
	if err := pool.QueryRow(ctx, "SELECT count(*) FROM recon.documents").Scan(&count); err != nil {
		t.Fatalf("query documents: %v", err)
	}
	if count != 0 {
		t.Errorf("documents = %d, want 0", count)
	}
}

func TestUpsertGet_RoundTrip(t *testing.T) {
	_, s := setupStore(t)
	ctx := context.Background()
	batch := uuid.New()

	payer := model.Payer{PayerID: "60054", Name: "ACME HEALTH PLAN"}
	if err := s.Upsert(ctx, store.Payers, payer.PayerID, payer, batch); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	var got model.Payer
	if err := s.Get(ctx, store.Payers, "60054", &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != payer {
		t.Errorf("got %+v, want %+v", got, payer)
	}
}

func TestGet_NotFound(t *testing.T) {
	_, s := setupStore(t)
	var got model.Payer
	err := s.Get(context.Background(), store.Payers, "99999", &got)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpsert_ReplacesDocument(t *testing.T) {
	_, s := setupStore(t)
	ctx := context.Background()

	first := uuid.New()
	if err := s.Upsert(ctx, store.Payers, "60054", model.Payer{PayerID: "60054", Name: "OLD NAME"}, first); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	second := uuid.New()
	if err := s.Upsert(ctx, store.Payers, "60054", model.Payer{PayerID: "60054", Name: "NEW NAME"}, second); err != nil {
		t.Fatalf("Upsert (replace): %v", err)
	}

	var got model.Payer
	if err := s.Get(ctx, store.Payers, "60054", &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "NEW NAME" {
		t.Errorf("name = %q, want NEW NAME", got.Name)
	}

	n, err := s.Count(ctx, store.Payers)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1 after replace", n)
	}
}

func TestFind_ContainmentFilter(t *testing.T) {
	_, s := setupStore(t)
	ctx := context.Background()
	batch := uuid.New()

	claims := []model.ClaimRecord{
		{Claim: claimFor("DOE", "JANE", "60054"), ClaimID: "60054-20240201-doe-1", BatchID: batch.String()},
		{Claim: claimFor("SMITH", "ALEX", "60054"), ClaimID: "60054-20240201-smith-1", BatchID: batch.String()},
		{Claim: claimFor("DOE", "JANE", "71412"), ClaimID: "71412-20240215-doe-1", BatchID: batch.String()},
	}
	for _, cr := range claims {
		if err := s.Upsert(ctx, store.Claims, cr.ClaimID, cr, batch); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}

	docs, err := s.Find(ctx, store.Claims, map[string]any{
		"claim": map[string]any{"first_name": "JANE", "last_name": "DOE"},
	})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("filtered find = %d docs, want 2", len(docs))
	}
	for _, doc := range docs {
		var cr model.ClaimRecord
		if err := json.Unmarshal(doc, &cr); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if cr.Claim.LastName != "DOE" {
			t.Errorf("filter returned %q", cr.Claim.ClientName())
		}
	}

	all, err := s.Find(ctx, store.Claims, nil)
	if err != nil {
		t.Fatalf("Find(nil): %v", err)
	}
	if len(all) != 3 {
		t.Errorf("unfiltered find = %d docs, want 3", len(all))
	}
}

func TestCollections_AreIsolated(t *testing.T) {
	_, s := setupStore(t)
	ctx := context.Background()
	batch := uuid.New()

	if err := s.Upsert(ctx, store.Payers, "X1", model.Payer{PayerID: "X1", Name: "A"}, batch); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := s.Upsert(ctx, store.Services, "X1", model.ServiceItem{BillingCode: "X1", UnitRate: money.MustParse("10.00")}, batch); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	var payer model.Payer
	if err := s.Get(ctx, store.Payers, "X1", &payer); err != nil {
		t.Fatalf("Get payer: %v", err)
	}
	if payer.Name != "A" {
		t.Errorf("payer = %+v, want the payers-collection document", payer)
	}
	n, err := s.Count(ctx, store.Payers)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Errorf("payers count = %d, want 1", n)
	}
}

func claimFor(last, first, payerID string) model.Edi837Claim {
	return model.Edi837Claim{
		PayerID:    payerID,
		BilledDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		FirstName:  first,
		LastName:   last,
		Billed:     money.MustParse("100.00"),
	}
}
