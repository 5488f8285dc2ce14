// Package main provides the entry point for the customer option pricing tools
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glintshop/customer-options/app/dto"
	"github.com/glintshop/customer-options/app/services"
	businessflow "github.com/glintshop/customer-options/business_flow"
	"github.com/glintshop/customer-options/config"
	"github.com/glintshop/customer-options/models"
	"github.com/glintshop/customer-options/repository"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Application wires the repositories and business flows together
type Application struct {
	config     *config.Config
	db         *gorm.DB
	rc         *redis.Client
	importFlow businessflow.PriceImportFlow
	optionFlow businessflow.CustomerOptionFlow
}

func main() {
	filePath := flag.String("file", "", "price import file (.csv or .xlsx)")
	format := flag.String("format", "", "file format override: csv or xlsx")
	migrate := flag.Bool("migrate", false, "run schema migrations before importing")
	listTypes := flag.Bool("list-types", false, "print the option type catalog and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg.Logging)

	app, err := initializeApplication(cfg, *migrate)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.Close()

	if cfg.Metrics.Enabled {
		startMetricsListener(cfg.Metrics)
	}

	ctx := context.Background()

	if *listTypes {
		printJSON(app.optionFlow.ListOptionTypes(ctx))
		return
	}

	if *filePath == "" {
		log.Fatal("No import file given; use -file <path>")
	}

	result, err := runImport(ctx, app.importFlow, *filePath, *format)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	log.Printf("Import %s finished: %d succeeded, %d failed", result.ImportID, result.Succeeded, result.Failed)
	printJSON(result)

	if result.Failed > 0 {
		os.Exit(1)
	}
}

// runImport opens the file and dispatches on its format
func runImport(ctx context.Context, flow businessflow.PriceImportFlow, path, format string) (*dto.PriceImportResult, error) {
	detected := detectFormat(path, format)
	switch detected {
	case "xlsx", "csv":
	case "":
		return nil, fmt.Errorf("cannot detect import format of %q; use -format csv or -format xlsx", path)
	default:
		return nil, fmt.Errorf("unsupported import format %q", detected)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open import file: %w", err)
	}
	defer file.Close()

	if detected == "xlsx" {
		return flow.ImportFromExcel(ctx, file)
	}
	return flow.ImportFromCSV(ctx, file)
}

func setupLogging(cfg config.LoggingConfig) {
	switch cfg.Output {
	case "file":
		log.SetOutput(&lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		})
	case "both":
		log.SetOutput(io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}))
	default:
		log.SetOutput(os.Stdout)
	}
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// initializeCache initializes the redis client and verifies connectivity.
// A disabled cache returns a nil client; callers treat that as no cache.
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	rc := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s (db=%d)", cfg.RedisURL, cfg.RedisDB)
	return rc, nil
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.Config, migrate bool) (*Application, error) {
	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	if migrate {
		if err := migrateSchema(db); err != nil {
			return nil, err
		}
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}

	productRepo := repository.NewProductRepository(db)
	channelRepo := repository.NewChannelRepository(db)
	optionRepo := repository.NewCustomerOptionRepository(db)
	valueRepo := repository.NewCustomerOptionValueRepository(db)
	priceRepo := repository.NewCustomerOptionValuePriceRepository(db)

	priceValidator := services.NewPriceValidator()
	uow := repository.NewGormUnitOfWork(db)

	importFlow := businessflow.NewPriceImportFlow(
		productRepo, optionRepo, valueRepo, channelRepo, priceRepo,
		priceValidator, uow, rc, &cfg.Cache, cfg.Import.BatchSize,
	)
	optionFlow := businessflow.NewCustomerOptionFlow(optionRepo, valueRepo)

	return &Application{
		config:     cfg,
		db:         db,
		rc:         rc,
		importFlow: importFlow,
		optionFlow: optionFlow,
	}, nil
}

// migrateSchema creates or updates the pricing tables
func migrateSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Channel{},
		&models.Product{},
		&models.CustomerOption{},
		&models.CustomerOptionValue{},
		&models.CustomerOptionValuePrice{},
		&models.OrderItemOption{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	log.Println("Schema migration completed")
	return nil
}

func startMetricsListener(cfg config.MetricsConfig) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.Handler())
	go func() {
		log.Printf("Metrics listening on %s%s", cfg.ListenAddr, cfg.Path)
		if err := http.ListenAndServe(cfg.ListenAddr, mux); err != nil {
			log.Printf("Metrics listener stopped: %v", err)
		}
	}()
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Printf("Failed to render result: %v", err)
		return
	}
	fmt.Println(string(out))
}

// Close releases the application's external connections
func (a *Application) Close() {
	if a.rc != nil {
		_ = a.rc.Close()
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

// detectFormat maps the file extension to an import format. An explicit
// override is passed through untouched apart from case, so a typo fails
// loudly instead of falling back to CSV.
func detectFormat(path, override string) string {
	if override != "" {
		return strings.ToLower(override)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return "xlsx"
	case ".csv":
		return "csv"
	default:
		return ""
	}
}
