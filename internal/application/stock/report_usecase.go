package stock

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/Catalogo-servidores-api/internal/domain"
	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/repository"
)

// LevelReportLine línea del reporte: nivel enriquecido con el nombre del componente.
type LevelReportLine struct {
	ComponentType entity.ComponentKind
	ComponentID   string
	ComponentName string
	Quantity      int
	UpdatedAt     time.Time
}

// ReportGenerator genera el documento del reporte de niveles.
type ReportGenerator interface {
	GenerateStockReport(ctx context.Context, generatedAt time.Time, lines []LevelReportLine) ([]byte, error)
}

// ReportUseCase reporte PDF de niveles de stock.
type ReportUseCase struct {
	levels    repository.StockLevelRepository
	targets   repository.PriceTargetRepository
	generator ReportGenerator
	now       func() time.Time
}

// NewReportUseCase construye el caso de uso inyectando sus dependencias.
func NewReportUseCase(
	levels repository.StockLevelRepository,
	targets repository.PriceTargetRepository,
	generator ReportGenerator,
) *ReportUseCase {
	return &ReportUseCase{levels: levels, targets: targets, generator: generator, now: time.Now}
}

// LevelsPDF devuelve el PDF con todos los niveles, ordenado por tipo y nombre, y su nombre de archivo.
func (uc *ReportUseCase) LevelsPDF(ctx context.Context) (pdfBytes []byte, filename string, err error) {
	levels, err := uc.levels.List(ctx)
	if err != nil {
		return nil, "", domain.Technical("reporte: listar niveles", err)
	}

	idsByKind := make(map[entity.ComponentKind][]string)
	for _, l := range levels {
		idsByKind[l.ComponentType] = append(idsByKind[l.ComponentType], l.ComponentID)
	}
	names := make(map[entity.StockKey]string, len(levels))
	for kind, ids := range idsByKind {
		byID, err := uc.targets.NamesByIDs(ctx, entity.TargetType(kind), ids)
		if err != nil {
			return nil, "", domain.Technical("reporte: nombres de componentes", err)
		}
		for id, name := range byID {
			names[entity.StockKey{ComponentType: kind, ComponentID: id}] = name
		}
	}

	lines := make([]LevelReportLine, 0, len(levels))
	for _, l := range levels {
		name, ok := names[l.Key()]
		if !ok {
			name = "Componente " + l.ComponentID // fallback: componente borrado
		}
		lines = append(lines, LevelReportLine{
			ComponentType: l.ComponentType,
			ComponentID:   l.ComponentID,
			ComponentName: name,
			Quantity:      l.Quantity,
			UpdatedAt:     l.UpdatedAt,
		})
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].ComponentType != lines[j].ComponentType {
			return lines[i].ComponentType < lines[j].ComponentType
		}
		return lines[i].ComponentName < lines[j].ComponentName
	})

	now := uc.now()
	pdfBytes, err = uc.generator.GenerateStockReport(ctx, now, lines)
	if err != nil {
		return nil, "", domain.Technical("reporte: generación fallida", err)
	}
	return pdfBytes, fmt.Sprintf("stock_%s.pdf", now.Format("20060102_1504")), nil
}
