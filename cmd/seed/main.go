package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newDataDirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "data-dir",
		Usage:   "Directory containing seed CSV files",
		Value:   "./data/seeds",
		EnvVars: []string{"SEED_DATA_DIR"},
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Seed the database with store data",
		Commands: []*cli.Command{
			{
				Name:   "master",
				Usage:  "Seed master data (menus, ingredients, suppliers, recipes)",
				Flags:  []cli.Flag{newDBURLFlag(), newDataDirFlag()},
				Action: runMasterSeed,
			},
			{
				Name:   "sales",
				Usage:  "Seed sales history (daily sales and menu mix)",
				Flags:  []cli.Flag{newDBURLFlag(), newDataDirFlag()},
				Action: runSalesSeed,
			},
			{
				Name:  "all",
				Usage: "Seed master data and sales history",
				Flags: []cli.Flag{newDBURLFlag(), newDataDirFlag()},
				Action: func(c *cli.Context) error {
					if err := runMasterSeed(c); err != nil {
						return fmt.Errorf("error running master seed: %w", err)
					}
					if err := runSalesSeed(c); err != nil {
						return fmt.Errorf("error running sales seed: %w", err)
					}
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runMasterSeed(c *cli.Context) error {
	return withTx(c, func(ctx context.Context, tx *sql.Tx, dataDir string) error {
		if err := seedTable(ctx, tx, "menus",
			[]string{"store_id", "name", "sale_price"},
			"(store_id, name)",
			filepath.Join(dataDir, "menus.csv")); err != nil {
			return fmt.Errorf("failed to seed menus: %w", err)
		}

		if err := seedTable(ctx, tx, "ingredients",
			[]string{"store_id", "name", "base_unit", "unit_price", "order_unit", "conversion_rate", "category"},
			"(store_id, name)",
			filepath.Join(dataDir, "ingredients.csv")); err != nil {
			return fmt.Errorf("failed to seed ingredients: %w", err)
		}

		if err := seedTable(ctx, tx, "suppliers",
			[]string{"store_id", "name", "min_order_krw", "delivery_fee", "lead_time_days", "contact_memo"},
			"(store_id, name)",
			filepath.Join(dataDir, "suppliers.csv")); err != nil {
			return fmt.Errorf("failed to seed suppliers: %w", err)
		}

		if err := seedRecipes(ctx, tx, dataDir); err != nil {
			return fmt.Errorf("failed to seed recipes: %w", err)
		}

		if err := seedIngredientSuppliers(ctx, tx, dataDir); err != nil {
			return fmt.Errorf("failed to seed ingredient suppliers: %w", err)
		}

		return nil
	})
}

func runSalesSeed(c *cli.Context) error {
	return withTx(c, func(ctx context.Context, tx *sql.Tx, dataDir string) error {
		if err := seedTable(ctx, tx, "daily_sales",
			[]string{"store_id", "date", "store_name", "card", "cash", "total"},
			"(store_id, date)",
			filepath.Join(dataDir, "daily_sales.csv")); err != nil {
			return fmt.Errorf("failed to seed daily sales: %w", err)
		}

		if err := seedSalesItems(ctx, tx, dataDir); err != nil {
			return fmt.Errorf("failed to seed daily sales items: %w", err)
		}

		return nil
	})
}

func withTx(c *cli.Context, fn func(ctx context.Context, tx *sql.Tx, dataDir string) error) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	log.Println("Starting database seeding...")

	if err := fn(ctx, tx, c.String("data-dir")); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

// seedTable upserts every CSV row into tableName. The CSV header names the
// columns; conflictTarget is the table's natural key.
func seedTable(ctx context.Context, tx *sql.Tx, tableName string, columns []string, conflictTarget, filePath string) error {
	log.Printf("Seeding %s from %s\n", tableName, filePath)

	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read CSV header: %w", err)
	}

	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT %s DO UPDATE SET %s",
		tableName,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
		conflictTarget,
		buildUpdateClause(columns, conflictTarget),
	)

	count := 0
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("failed to read CSV record: %w", err)
		}

		args := make([]interface{}, len(columns))
		for i, col := range columns {
			idx := getColumnIndex(header, col)
			if idx >= len(record) {
				return fmt.Errorf("column index %d out of bounds for column '%s' (record has %d columns)", idx, col, len(record))
			}
			args[i] = record[idx]
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert record: %w", err)
		}
		count++
	}

	log.Printf("Successfully seeded %s (%d records)\n", tableName, count)
	return nil
}

// seedRecipes resolves menu and ingredient names to ids. CSV columns:
// store_id, menu_name, ingredient_name, qty_per_serving.
func seedRecipes(ctx context.Context, tx *sql.Tx, dataDir string) error {
	const query = `
		INSERT INTO recipe_lines (store_id, menu_id, ingredient_id, qty_per_serving)
		SELECT m.store_id, m.id, i.id, $4
		FROM menus m
		JOIN ingredients i ON i.store_id = m.store_id AND i.name = $3
		WHERE m.store_id = $1 AND m.name = $2
		ON CONFLICT (store_id, menu_id, ingredient_id)
		DO UPDATE SET qty_per_serving = EXCLUDED.qty_per_serving
	`
	return seedByJoin(ctx, tx, "recipe_lines", filepath.Join(dataDir, "recipes.csv"), query, 4)
}

// seedIngredientSuppliers resolves ingredient and supplier names to ids.
// CSV columns: store_id, ingredient_name, supplier_name.
func seedIngredientSuppliers(ctx context.Context, tx *sql.Tx, dataDir string) error {
	const query = `
		INSERT INTO ingredient_suppliers (store_id, ingredient_id, supplier_id)
		SELECT i.store_id, i.id, s.id
		FROM ingredients i
		JOIN suppliers s ON s.store_id = i.store_id AND s.name = $3
		WHERE i.store_id = $1 AND i.name = $2
		ON CONFLICT (store_id, ingredient_id)
		DO UPDATE SET supplier_id = EXCLUDED.supplier_id
	`
	return seedByJoin(ctx, tx, "ingredient_suppliers", filepath.Join(dataDir, "ingredient_suppliers.csv"), query, 3)
}

// seedSalesItems resolves menu names to ids. CSV columns:
// store_id, date, menu_name, qty.
func seedSalesItems(ctx context.Context, tx *sql.Tx, dataDir string) error {
	const query = `
		INSERT INTO daily_sales_items (store_id, date, menu_id, qty)
		SELECT m.store_id, $2, m.id, $4
		FROM menus m
		WHERE m.store_id = $1 AND m.name = $3
		ON CONFLICT (store_id, date, menu_id)
		DO UPDATE SET qty = EXCLUDED.qty
	`
	return seedByJoin(ctx, tx, "daily_sales_items", filepath.Join(dataDir, "daily_sales_items.csv"), query, 4)
}

// seedByJoin runs an id-resolving upsert for each CSV row, passing the row's
// first argCount fields as positional arguments.
func seedByJoin(ctx context.Context, tx *sql.Tx, tableName, filePath, query string, argCount int) error {
	log.Printf("Seeding %s from %s\n", tableName, filePath)

	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	if _, err := reader.Read(); err != nil {
		return fmt.Errorf("failed to read CSV header: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	count := 0
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("failed to read CSV record: %w", err)
		}
		if len(record) < argCount {
			return fmt.Errorf("invalid record (expected at least %d columns): %v", argCount, record)
		}

		args := make([]interface{}, argCount)
		for i := 0; i < argCount; i++ {
			args[i] = strings.TrimSpace(record[i])
		}

		res, err := stmt.ExecContext(ctx, args...)
		if err != nil {
			return fmt.Errorf("failed to insert record %v: %w", record, err)
		}
		affected, _ := res.RowsAffected()
		if affected == 0 {
			return fmt.Errorf("unresolved reference in record %v", record)
		}
		count++
	}

	log.Printf("Successfully seeded %s (%d records)\n", tableName, count)
	return nil
}

func buildUpdateClause(columns []string, conflictTarget string) string {
	updates := make([]string, 0, len(columns))
	for _, col := range columns {
		// Skip natural key columns.
		if strings.Contains(conflictTarget, col) {
			continue
		}
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
	}
	return strings.Join(updates, ", ")
}

func getColumnIndex(header []string, column string) int {
	for i, h := range header {
		if h == column {
			return i
		}
	}

	panic(fmt.Sprintf("column '%s' not found in header: %v", column, header))
}
