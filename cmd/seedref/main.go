// Command seedref loads reference lists from an Excel workbook into the
// reference_items table. Each sheet is named after a reference kind
// (country, gender, state, ...). Columns: A=code, B=name, C=parent code
// (states only). The first row is a header.
// Usage: go run ./cmd/seedref -file reference.xlsx
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"patentdesk/internal/config"
	"patentdesk/internal/domain"
	"patentdesk/internal/repository/postgres"
)

const batchSize = 500

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	xlsxPath := flag.String("file", "db/seeds/reference.xlsx", "path to the reference workbook")
	dryRun := flag.Bool("dry-run", false, "parse the workbook without writing to the database")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	f, err := excelize.OpenFile(*xlsxPath)
	if err != nil {
		return fmt.Errorf("open Excel file: %w", err)
	}
	defer func() { _ = f.Close() }()

	items, err := parseWorkbook(f)
	if err != nil {
		return err
	}
	zap.L().Info("parsed workbook", zap.String("file", *xlsxPath), zap.Int("items", len(items)))
	if *dryRun {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	repo := postgres.NewReferenceRepo(db)
	ctx := context.Background()
	for i := 0; i < len(items); i += batchSize {
		end := i + batchSize
		if end > len(items) {
			end = len(items)
		}
		if err := repo.Upsert(ctx, items[i:end]); err != nil {
			return fmt.Errorf("upsert batch at offset %d: %w", i, err)
		}
	}

	zap.L().Info("reference data seeded",
		zap.Int("items", len(items)),
		zap.Int("batches", (len(items)+batchSize-1)/batchSize))
	return nil
}

// parseWorkbook reads every sheet whose name is a known reference kind.
// Unknown sheets are skipped. Within a kind, later duplicate codes are dropped.
func parseWorkbook(f *excelize.File) ([]domain.ReferenceItem, error) {
	var items []domain.ReferenceItem
	for _, sheet := range f.GetSheetList() {
		kind := domain.ReferenceKind(strings.ToLower(strings.TrimSpace(sheet)))
		if !domain.ValidReferenceKinds[kind] {
			zap.L().Warn("skipping sheet", zap.String("sheet", sheet))
			continue
		}

		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		parsed := parseRows(kind, rows)
		zap.L().Info("parsed sheet", zap.String("kind", string(kind)), zap.Int("items", len(parsed)))
		items = append(items, parsed...)
	}
	return items, nil
}

func parseRows(kind domain.ReferenceKind, rows [][]string) []domain.ReferenceItem {
	seen := make(map[string]bool)
	var items []domain.ReferenceItem
	for i := 1; i < len(rows); i++ {
		code := strings.TrimSpace(cellVal(rows[i], 0))
		name := strings.TrimSpace(cellVal(rows[i], 1))
		if code == "" || name == "" || seen[code] {
			continue
		}
		seen[code] = true

		parent := strings.TrimSpace(cellVal(rows[i], 2))
		if kind == domain.RefState {
			parent = strings.ToUpper(parent)
		}
		items = append(items, domain.ReferenceItem{
			Kind:       kind,
			Code:       code,
			Name:       name,
			ParentCode: parent,
			SortOrder:  len(items) + 1,
		})
	}
	return items
}

func cellVal(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}
