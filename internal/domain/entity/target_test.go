package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/entity"
)

func TestComponentKinds_TodosTienenTabla(t *testing.T) {
	kinds := entity.ComponentKinds()
	assert.Len(t, kinds, 14)
	seen := map[string]bool{}
	for _, k := range kinds {
		table := k.Table()
		assert.NotEmpty(t, table, "tipo %s sin tabla", k)
		assert.False(t, seen[table], "tabla %s repetida", table)
		seen[table] = true

		tt, ok := entity.ParseTargetType(string(k))
		assert.True(t, ok)
		got, isComponent := tt.ComponentKind()
		assert.True(t, isComponent)
		assert.Equal(t, k, got)
	}
}

func TestParseTargetType(t *testing.T) {
	tt, ok := entity.ParseTargetType("server")
	assert.True(t, ok)
	assert.True(t, tt.IsServer())
	table, ok := tt.Table()
	assert.True(t, ok)
	assert.Equal(t, "servers", table)

	_, ok = entity.ParseTargetType("gpu")
	assert.False(t, ok)
}

func TestSortTargetRefs_OrdenTipoLuegoID(t *testing.T) {
	refs := []entity.TargetRef{
		entity.ServerRef("b"),
		entity.ComponentRef(entity.KindRAM, "z"),
		entity.ServerRef("a"),
		entity.ComponentRef(entity.KindBattery, "m"),
	}
	entity.SortTargetRefs(refs)
	assert.Equal(t, []entity.TargetRef{
		entity.ComponentRef(entity.KindBattery, "m"),
		entity.ComponentRef(entity.KindRAM, "z"),
		entity.ServerRef("a"),
		entity.ServerRef("b"),
	}, refs)
}
