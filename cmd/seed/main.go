// Package main provides a CLI tool for seeding the database with demo data.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"stockledger/internal/core/actor"
	"stockledger/internal/core/types"
	"stockledger/internal/domain/catalogs/counterparty"
	"stockledger/internal/domain/catalogs/item"
	"stockledger/internal/domain/movements/dispatch"
	"stockledger/internal/domain/movements/receipt"
	"stockledger/internal/domain/stock"
	"stockledger/internal/infrastructure/storage/postgres"
	"stockledger/pkg/logger"
	"stockledger/pkg/numerator"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)

	itemRepo := postgres.NewItemRepo(txManager)
	counterpartyRepo := postgres.NewCounterpartyRepo(txManager)
	receiptRepo := postgres.NewReceiptRepo(txManager)
	dispatchRepo := postgres.NewDispatchRepo(txManager)

	mutator := stock.NewMutator(itemRepo)
	numeratorService := numerator.New(pool)

	items := item.NewService(itemRepo, txManager)
	counterparties := counterparty.NewService(counterpartyRepo, txManager)
	receipts := receipt.NewService(receiptRepo, counterpartyRepo, mutator, numeratorService, nil, txManager)
	dispatches := dispatch.NewService(dispatchRepo, counterpartyRepo, mutator, numeratorService, nil, txManager)

	// Movements record who created them.
	ctx = actor.WithActor(ctx, &actor.Actor{ID: "seed", Name: "seed"})

	if err := seedCatalogs(ctx, items, counterparties, log); err != nil {
		log.Fatalw("failed to seed catalogs", "error", err)
	}

	if os.Getenv("SEED_DEMO_MOVEMENTS") == "true" {
		if err := seedMovements(ctx, itemRepo, counterpartyRepo, receipts, dispatches, log); err != nil {
			log.Fatalw("failed to seed movements", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedCatalogs(ctx context.Context, items *item.Service, counterparties *counterparty.Service, log *logger.Logger) error {
	itemSeeds := []item.CreateCommand{
		{Code: "BOLT-M8", Name: "Hex bolt M8x40", Category: "fasteners", Unit: "pcs", MinimumQuantity: types.NewQuantityFromFloat64(500)},
		{Code: "NUT-M8", Name: "Hex nut M8", Category: "fasteners", Unit: "pcs", MinimumQuantity: types.NewQuantityFromFloat64(500)},
		{Code: "STEEL-2MM", Name: "Steel sheet 2mm", Category: "raw", Unit: "kg", MinimumQuantity: types.NewQuantityFromFloat64(100)},
		{Code: "PAINT-GRY", Name: "Primer paint, grey", Category: "consumables", Unit: "l"},
	}

	for _, cmd := range itemSeeds {
		it, err := items.Create(ctx, cmd)
		if err != nil {
			// Re-running the seeder against a populated database is fine.
			log.Warnw("skipping item", "code", cmd.Code, "error", err)
			continue
		}
		log.Infow("item seeded", "code", it.Code, "id", it.ID)
	}

	counterpartySeeds := []counterparty.CreateCommand{
		{Code: "SUP-001", Name: "Baltic Fasteners OU", Type: counterparty.TypeSupplier, Contact: "orders@balticfasteners.example"},
		{Code: "SUP-002", Name: "Nordsteel AB", Type: counterparty.TypeSupplier, Contact: "sales@nordsteel.example"},
		{Code: "CUS-001", Name: "Vertex Assembly Ltd", Type: counterparty.TypeCustomer, Contact: "procurement@vertex.example"},
		{Code: "CUS-002", Name: "Granton Works", Type: counterparty.TypeBoth, Contact: "office@granton.example"},
	}

	for _, cmd := range counterpartySeeds {
		cp, err := counterparties.Create(ctx, cmd)
		if err != nil {
			log.Warnw("skipping counterparty", "code", cmd.Code, "error", err)
			continue
		}
		log.Infow("counterparty seeded", "code", cp.Code, "id", cp.ID)
	}

	return nil
}

func seedMovements(
	ctx context.Context,
	itemRepo *postgres.ItemRepo,
	counterpartyRepo *postgres.CounterpartyRepo,
	receipts *receipt.Service,
	dispatches *dispatch.Service,
	log *logger.Logger,
) error {
	bolt, err := itemRepo.GetByCode(ctx, "BOLT-M8")
	if err != nil {
		return fmt.Errorf("load item BOLT-M8: %w", err)
	}
	supplier, err := counterpartyRepo.GetByCode(ctx, "SUP-001")
	if err != nil {
		return fmt.Errorf("load counterparty SUP-001: %w", err)
	}
	customer, err := counterpartyRepo.GetByCode(ctx, "CUS-001")
	if err != nil {
		return fmt.Errorf("load counterparty CUS-001: %w", err)
	}

	now := time.Now()

	rec, err := receipts.Create(ctx, receipt.CreateCommand{
		ItemID:     bolt.ID,
		SupplierID: supplier.ID,
		Quantity:   types.NewQuantityFromFloat64(2000),
		Date:       now.AddDate(0, 0, -14),
	})
	if err != nil {
		return fmt.Errorf("seed receipt: %w", err)
	}
	log.Infow("receipt seeded", "document_no", rec.DocumentNo, "quantity", rec.QuantityReceived)

	disp, err := dispatches.Create(ctx, dispatch.CreateCommand{
		ItemID:      bolt.ID,
		CustomerID:  customer.ID,
		ApprovedQty: types.NewQuantityFromFloat64(600),
		Date:        now.AddDate(0, 0, -7),
	})
	if err != nil {
		return fmt.Errorf("seed dispatch: %w", err)
	}
	log.Infow("dispatch seeded",
		"document_no", disp.DocumentNo,
		"approved", disp.ApprovedQty,
		"retained", disp.RetainedQty,
	)

	return nil
}
