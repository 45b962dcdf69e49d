package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Catalogo-servidores-api/internal/application/stock"
	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-servidores-api/internal/infrastructure/pdf"
)

func TestGenerateStockReport_DevuelvePDF(t *testing.T) {
	gen := pdf.NewMarotoPDFGenerator("Catálogo de servidores")
	now := time.Date(2026, 6, 1, 8, 30, 0, 0, time.UTC)
	lines := []stock.LevelReportLine{
		{ComponentType: entity.KindRAM, ComponentID: "a", ComponentName: "DDR5 32GB", Quantity: 12000, UpdatedAt: now},
		{ComponentType: entity.KindBattery, ComponentID: "b", ComponentName: "BBU", Quantity: 0, UpdatedAt: now},
	}

	out, err := gen.GenerateStockReport(context.Background(), now, lines)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe ser un PDF")
}

func TestGenerateStockReport_SinLineas(t *testing.T) {
	gen := pdf.NewMarotoPDFGenerator("Catálogo de servidores")
	out, err := gen.GenerateStockReport(context.Background(), time.Now(), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
