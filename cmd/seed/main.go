// Package main seeds a demo shop for local development: an organization
// with an owner login, a small catalog, khata accounts and a handful of
// recorded sales.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"vyapari/internal/config"
	"vyapari/internal/core/types"
	"vyapari/internal/domain/auth"
	"vyapari/internal/domain/inventory"
	"vyapari/internal/domain/ledger"
	"vyapari/internal/domain/org"
	"vyapari/internal/domain/sales"
	"vyapari/internal/infrastructure/numerator"
	"vyapari/internal/infrastructure/storage/postgres"
	"vyapari/internal/infrastructure/storage/postgres/auth_repo"
	"vyapari/internal/infrastructure/storage/postgres/inventory_repo"
	"vyapari/internal/infrastructure/storage/postgres/ledger_repo"
	"vyapari/internal/infrastructure/storage/postgres/org_repo"
	"vyapari/internal/infrastructure/storage/postgres/sales_repo"
	"vyapari/pkg/logger"
)

type seedItem struct {
	sku       string
	name      string
	buyPrice  string
	sellPrice string
	gst       string
	stock     int64
}

var demoItems = []seedItem{
	{"SOAP-100", "Toilet Soap 100g", "22", "30", "18", 120},
	{"RICE-5KG", "Basmati Rice 5kg", "380", "450", "5", 40},
	{"OIL-1L", "Sunflower Oil 1L", "125", "150", "5", 60},
	{"TEA-250", "Assam Tea 250g", "95", "130", "5", 80},
	{"BISC-PK", "Glucose Biscuits", "8", "10", "18", 300},
	{"DET-1KG", "Detergent Powder 1kg", "70", "99", "18", 50},
}

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	email := flag.String("email", "owner@demo.shop", "owner login email")
	password := flag.String("password", "demo1234", "owner login password")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Development: true})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	if cfg.DB.RunMigrations {
		if err := postgres.RunMigrations(cfg.DB.DSN, cfg.DB.MigrationsPath); err != nil {
			log.Fatalw("failed to run migrations", "error", err)
		}
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DB.DSN))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)

	orgService := org.NewService(org_repo.NewOrgRepo(txManager))
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig("seed-only"))
	authService := auth.NewService(
		auth_repo.NewUserRepo(txManager),
		auth_repo.NewTokenRepo(txManager),
		orgService,
		txManager,
		jwtService,
		auth.DefaultServiceConfig(),
	)

	itemRepo := inventory_repo.NewInventoryRepo(txManager)
	inventoryService := inventory.NewService(itemRepo, txManager)
	directory := ledger.NewDirectory(ledger_repo.NewDirectoryRepo(txManager))
	salesService := sales.NewService(
		sales_repo.NewSalesRepo(txManager),
		itemRepo,
		directory,
		numerator.NewInvoiceNumberer(txManager),
		txManager,
		sales.DefaultConfig(),
	)

	// --- Shop and owner ---
	user, organization, err := authService.Signup(ctx, auth.SignupRequest{
		ShopName: "Sharma General Store",
		Email:    *email,
		Password: *password,
		Name:     "Ramesh Sharma",
	})
	if err != nil {
		log.Fatalw("failed to create demo shop", "error", err)
	}
	log.Infow("demo shop created", "org_id", organization.ID, "owner", user.Email)

	// --- Catalog ---
	items := make([]*inventory.Item, 0, len(demoItems))
	for _, d := range demoItems {
		sell := types.MustMoney(d.sellPrice)
		gst := types.MustMoney(d.gst)
		item := inventory.NewItem(organization.ID, d.sku, d.name, types.MustMoney(d.buyPrice))
		item.SellPrice = &sell
		item.GSTPercent = &gst
		item.Stock = d.stock
		if err := inventoryService.Create(ctx, item); err != nil {
			log.Fatalw("failed to seed item", "sku", d.sku, "error", err)
		}
		items = append(items, item)
	}
	log.Infow("catalog seeded", "items", len(items))

	// --- Khata accounts ---
	phone := "9876543210"
	gstin := "27AAPFU0939F1ZV"
	customer, err := directory.CreateCustomer(ctx, organization.ID, ledger.CreateCustomerInput{
		Name:  "Sunita Devi",
		Phone: &phone,
		GSTIN: &gstin,
	})
	if err != nil {
		log.Fatalw("failed to seed customer", "error", err)
	}

	if _, err := directory.CreateSupplier(ctx, organization.ID, ledger.CreateSupplierInput{
		Name: "Gupta Wholesale Traders",
	}); err != nil {
		log.Fatalw("failed to seed supplier", "error", err)
	}

	// --- A few sales, spread across payment methods ---
	taxCfg := organization.TaxConfig()
	methods := []sales.PaymentMethod{sales.PaymentCash, sales.PaymentUPI, sales.PaymentCash, sales.PaymentCard}
	for i, method := range methods {
		item := items[i%len(items)]
		in := sales.RecordSaleInput{
			InventoryID:   item.ID,
			Quantity:      int64(i + 1),
			PaymentMethod: method,
		}
		if i == 0 {
			in.CustomerID = &customer.ID
		}
		if _, err := salesService.RecordSale(ctx, organization.ID, in, taxCfg); err != nil {
			log.Fatalw("failed to seed sale", "error", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	log.Infow("seed complete",
		"org_id", organization.ID,
		"login", *email,
	)
}
