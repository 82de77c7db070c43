// seed_catalog genera un script SQL para precargar el catálogo de productos
// a partir de un CSV exportado de hoja de cálculo (separador ';', ISO-8859-1 o UTF-8).
//
// Columnas: sku;nombre;precio;costo;stock_minimo;stock_maximo (la primera fila es encabezado).
//
// Uso: go run ./cmd/seed_catalog [ruta/catalogo.csv] [--utf8]
// Escribe: internal/infrastructure/postgres/migrations/002_seed_catalog.sql
package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	domaininv "github.com/jhoicas/retail-ledger/internal/domain/inventory"
)

type catalogRow struct {
	sku      string
	name     string
	price    decimal.Decimal
	cost     decimal.Decimal
	minStock int
	maxStock int
}

func main() {
	csvPath := "catalogo.csv"
	latin1 := true
	for _, arg := range os.Args[1:] {
		if arg == "--utf8" {
			latin1 = false
			continue
		}
		csvPath = arg
	}

	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	rows, err := parseCatalog(f, latin1)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer catálogo: %v\n", err)
		os.Exit(1)
	}

	outPath := filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "migrations", "002_seed_catalog.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, rows, time.Now().UTC()); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d productos\n", outPath, len(rows))
}

// parseCatalog lee el CSV y valida cada fila. Los SKU repetidos se descartan (gana el primero).
func parseCatalog(r io.Reader, latin1 bool) ([]catalogRow, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	seen := make(map[string]bool)
	var rows []catalogRow
	for i, rec := range records[1:] {
		line := i + 2
		if len(rec) < 6 {
			return nil, fmt.Errorf("línea %d: se esperaban 6 columnas, hay %d", line, len(rec))
		}
		row, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		key := strings.ToLower(row.sku)
		if seen[key] {
			continue
		}
		seen[key] = true
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(rec []string) (catalogRow, error) {
	row := catalogRow{
		sku:  strings.TrimSpace(rec[0]),
		name: strings.TrimSpace(rec[1]),
	}
	if row.sku == "" || row.name == "" {
		return row, fmt.Errorf("sku y nombre son obligatorios")
	}
	var err error
	if row.price, err = parseAmount(rec[2]); err != nil {
		return row, fmt.Errorf("precio: %w", err)
	}
	if row.cost, err = parseAmount(rec[3]); err != nil {
		return row, fmt.Errorf("costo: %w", err)
	}
	if row.minStock, err = strconv.Atoi(strings.TrimSpace(rec[4])); err != nil || row.minStock < 0 {
		return row, fmt.Errorf("stock mínimo inválido %q", rec[4])
	}
	if row.maxStock, err = strconv.Atoi(strings.TrimSpace(rec[5])); err != nil || row.maxStock < 0 {
		return row, fmt.Errorf("stock máximo inválido %q", rec[5])
	}
	if row.maxStock > 0 && row.maxStock < row.minStock {
		return row, fmt.Errorf("stock máximo menor que el mínimo")
	}
	return row, nil
}

// parseAmount acepta coma decimal ("1234,50").
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("valor negativo %s", s)
	}
	return d, nil
}

func writeSQL(w io.Writer, rows []catalogRow, now time.Time) error {
	var b strings.Builder
	b.WriteString("-- Catálogo inicial de productos (stock en cero)\n")
	b.WriteString("-- Generado por cmd/seed_catalog\n\n")
	ts := now.Format(time.RFC3339)
	for _, r := range rows {
		status := domaininv.DeriveStatus(0, r.minStock)
		fmt.Fprintf(&b, "INSERT INTO products (id, sku, name, price, cost, stock, min_stock, max_stock, status, created_at, updated_at)\n")
		fmt.Fprintf(&b, "VALUES ('%s', '%s', '%s', %s, %s, 0, %d, %d, '%s', '%s', '%s')\n",
			uuid.NewString(), escapeSQL(r.sku), escapeSQL(r.name),
			r.price.StringFixed(4), r.cost.StringFixed(4), r.minStock, r.maxStock, status, ts, ts)
		b.WriteString("ON CONFLICT DO NOTHING;\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
