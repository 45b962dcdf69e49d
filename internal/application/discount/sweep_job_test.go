package discount_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Catalogo-servidores-api/internal/application/discount"
	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-servidores-api/pkg/logger"
)

func TestLocalLocker_ExclusionYLiberacion(t *testing.T) {
	locker := discount.NewLocalLocker()

	release, err := locker.Obtain(ctx, "k", time.Minute)
	require.NoError(t, err)

	_, err = locker.Obtain(ctx, "k", time.Minute)
	assert.ErrorIs(t, err, discount.ErrLockNotObtained)

	_, err = locker.Obtain(ctx, "otra", time.Minute)
	assert.NoError(t, err, "claves distintas no se bloquean")

	require.NoError(t, release(ctx))
	_, err = locker.Obtain(ctx, "k", time.Minute)
	assert.NoError(t, err)
}

func TestSweepJob_RunOnceBarre(t *testing.T) {
	uc, store := setup(t)
	x := addTarget(store, entity.TargetType(entity.KindNetworkCard), "25GbE", "100")
	_, err := uc.Create(ctx, meta, request("fixed", "10", x))
	require.NoError(t, err)
	uc.WithClock(func() time.Time { return baseTS.Add(72 * time.Hour) })

	job := discount.NewSweepJob(uc, discount.NewLocalLocker(), 0, time.Minute, logger.Nop())
	swept, err := job.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, swept)
	assertPrice(t, store, x, "100")
}

func TestSweepJob_CandadoTomadoOmiteBarrido(t *testing.T) {
	uc, store := setup(t)
	x := addTarget(store, entity.TargetType(entity.KindNetworkCard), "25GbE", "100")
	_, err := uc.Create(ctx, meta, request("fixed", "10", x))
	require.NoError(t, err)
	uc.WithClock(func() time.Time { return baseTS.Add(72 * time.Hour) })

	locker := discount.NewLocalLocker()
	_, err = locker.Obtain(ctx, discount.SweepLockKey, time.Minute)
	require.NoError(t, err)

	job := discount.NewSweepJob(uc, locker, 0, time.Minute, logger.Nop())
	swept, err := job.RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, swept)
	assertPrice(t, store, x, "90")
}
