package seed

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/Simplici0/pintorpro/internal/db"
	"github.com/Simplici0/pintorpro/internal/migrations"
	"github.com/Simplici0/pintorpro/internal/state"
)

const legacySnapshot = `{
  "users": [],
  "estimates": [
    {"id": 1700000000002, "date": "02/01/2024", "client": "Beto", "address": "", "phone": "",
     "baseCalc": {"area": 5, "paint": 0.5, "price": 7500, "isML": false}, "extras": [], "total": 7500},
    {"id": 1700000000001, "date": "01/01/2024", "client": "Ana", "address": "Calle 1", "phone": "555",
     "baseCalc": {"area": 10, "paint": 1, "price": 13500, "isML": false, "grossPrice": 15000, "discountPercent": 10, "discountAmount": 1500},
     "extras": [{"desc": "Resane", "price": 2000}], "total": 15500}
  ],
  "settings": {"pricePerUnit": 0, "coverage": 10}
}`

func openRepo(t *testing.T) (*state.Repository, *db.KV) {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "seed-test.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := migrations.Up(database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	kv := db.NewKV(database, state.SnapshotKey)
	return state.Open(context.Background(), kv, zap.NewNop()), kv
}

func TestRunIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo, kv := openRepo(t)

	cfg := Config{CompanyName: "Pinturas Luz", Legacy: []byte(legacySnapshot)}

	for i := 0; i < 5; i++ {
		stats, err := Run(ctx, repo, cfg)
		if err != nil {
			t.Fatalf("run seed (iteration=%d): %v", i, err)
		}
		if i == 0 {
			if stats.Inserts != 2 {
				t.Fatalf("expected 2 inserts in first run, got %d", stats.Inserts)
			}
			continue
		}
		if stats != (Stats{}) {
			t.Fatalf("expected no changes in iteration %d, got %+v", i, stats)
		}
	}

	data, err := kv.Get(ctx)
	if err != nil {
		t.Fatalf("read stored snapshot: %v", err)
	}
	stored, _, err := state.Decode(data)
	if err != nil {
		t.Fatalf("decode stored snapshot: %v", err)
	}
	if len(stored.Estimates) != 2 {
		t.Fatalf("expected 2 stored estimates, got %d", len(stored.Estimates))
	}
	if stored.Estimates[0].Client.Name != "Beto" || stored.Estimates[1].Client.Name != "Ana" {
		t.Fatalf("legacy order not kept: %q, %q", stored.Estimates[0].Client.Name, stored.Estimates[1].Client.Name)
	}
	if !stored.Settings.Pricing.Valid() {
		t.Fatalf("expected valid pricing, got %+v", stored.Settings.Pricing)
	}
}

func TestRun_FillsCompanyNameOnce(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo, kv := openRepo(t)

	if err := repo.Update(ctx, func(st *state.RawState) error {
		st.Settings.Company.Name = ""
		return nil
	}); err != nil {
		t.Fatalf("clear company name: %v", err)
	}

	stats, err := Run(ctx, repo, Config{})
	if err != nil {
		t.Fatalf("run seed: %v", err)
	}
	if stats.Updates != 1 || stats.Inserts != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if got := repo.Snapshot().Settings.Company.Name; got != state.DefaultCompanyName {
		t.Fatalf("company name = %q, want %q", got, state.DefaultCompanyName)
	}

	before, _ := kv.Get(ctx)
	if _, err := Run(ctx, repo, Config{CompanyName: "Otra"}); err != nil {
		t.Fatalf("rerun seed: %v", err)
	}
	after, _ := kv.Get(ctx)
	if string(before) != string(after) {
		t.Fatal("expected stored snapshot to be untouched on rerun")
	}
}

func TestRun_RejectsCorruptLegacySnapshot(t *testing.T) {
	t.Parallel()
	repo, _ := openRepo(t)

	if _, err := Run(context.Background(), repo, Config{Legacy: []byte("{nope")}); err == nil {
		t.Fatal("expected error for corrupt legacy snapshot")
	}
}
