package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestParseCatalog_Latin1(t *testing.T) {
	raw := "sku;nombre;precio;costo;min;max\nCAFE-250;Café molido;12500,50;8000;5;40\ncafe-250;Repetido;1;1;0;0\nAZU-1;Azúcar 1kg;4200;3100;10;0\n"
	encoded, err := charmap.ISO8859_1.NewEncoder().String(raw)
	require.NoError(t, err)

	rows, err := parseCatalog(strings.NewReader(encoded), true)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "CAFE-250", rows[0].sku)
	assert.Equal(t, "Café molido", rows[0].name)
	assert.Equal(t, "12500.5", rows[0].price.String())
	assert.Equal(t, 5, rows[0].minStock)
	assert.Equal(t, 40, rows[0].maxStock)
	assert.Equal(t, "Azúcar 1kg", rows[1].name)
}

func TestParseCatalog_RejectsInvalidRows(t *testing.T) {
	cases := map[string]string{
		"columnas":     "h;h;h;h;h;h\nA;B;1\n",
		"precio":       "h;h;h;h;h;h\nA;B;abc;1;0;0\n",
		"negativo":     "h;h;h;h;h;h\nA;B;-1;1;0;0\n",
		"max bajo":     "h;h;h;h;h;h\nA;B;1;1;10;5\n",
		"sku vacío":    "h;h;h;h;h;h\n;B;1;1;0;0\n",
		"stock mínimo": "h;h;h;h;h;h\nA;B;1;1;-2;0\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseCatalog(strings.NewReader(in), false)
			assert.Error(t, err)
		})
	}
}

func TestWriteSQL(t *testing.T) {
	rows, err := parseCatalog(strings.NewReader("h;h;h;h;h;h\nO'BRIEN-1;Galletas O'Brien;3000;2000;4;0\n"), false)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeSQL(&buf, rows, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)))

	sql := buf.String()
	assert.Contains(t, sql, "'O''BRIEN-1', 'Galletas O''Brien', 3000.0000, 2000.0000, 0, 4, 0, 'OUT_OF_STOCK'")
	assert.Contains(t, sql, "'2026-01-02T03:04:05Z'")
	assert.Contains(t, sql, "ON CONFLICT DO NOTHING;")
}
