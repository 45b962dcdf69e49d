package discount

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jhoicas/Catalogo-servidores-api/pkg/logger"
)

// SweepLockKey clave del candado distribuido del barrido.
const SweepLockKey = "catalogo:discounts:sweep"

// ErrLockNotObtained otra instancia tiene el candado.
var ErrLockNotObtained = errors.New("candado no obtenido")

// Locker candado con TTL. release libera el candado obtenido.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, err error)
}

// LocalLocker candado en proceso; se usa cuando no hay Redis configurado (una sola instancia).
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]time.Time
	now  func() time.Time
}

// NewLocalLocker crea el candado en memoria.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]time.Time), now: time.Now}
}

// Obtain toma key si está libre o si su TTL ya venció.
func (l *LocalLocker) Obtain(_ context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if until, ok := l.held[key]; ok && now.Before(until) {
		return nil, ErrLockNotObtained
	}
	until := now.Add(ttl)
	l.held[key] = until
	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.held[key].Equal(until) {
			delete(l.held, key)
		}
		return nil
	}, nil
}

// SweepJob ejecuta SweepExpired periódicamente. Con varias instancias, el candado evita
// barridos simultáneos; aun sin él, el barrido es idempotente.
type SweepJob struct {
	uc       *UseCase
	locker   Locker
	interval time.Duration
	lockTTL  time.Duration
	log      *logger.Logger
}

// NewSweepJob construye el job. interval <= 0 deshabilita el ciclo (RunOnce sigue disponible).
func NewSweepJob(uc *UseCase, locker Locker, interval, lockTTL time.Duration, log *logger.Logger) *SweepJob {
	if locker == nil {
		locker = NewLocalLocker()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &SweepJob{
		uc:       uc,
		locker:   locker,
		interval: interval,
		lockTTL:  lockTTL,
		log:      log.Component("discount_sweep"),
	}
}

// RunOnce toma el candado y barre. Si otra instancia lo tiene devuelve 0, nil.
func (j *SweepJob) RunOnce(ctx context.Context) (int, error) {
	release, err := j.locker.Obtain(ctx, SweepLockKey, j.lockTTL)
	if errors.Is(err, ErrLockNotObtained) {
		j.log.Debug().Msg("barrido en curso en otra instancia, se omite")
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			j.log.Warn().Err(err).Msg("no se pudo liberar el candado del barrido")
		}
	}()

	start := time.Now()
	swept, err := j.uc.SweepExpired(ctx, j.uc.now())
	ev := j.log.Info()
	if err != nil {
		ev = j.log.Error().Err(err)
	}
	ev.Int("swept", swept).Dur("elapsed", time.Since(start)).Msg("barrido de descuentos vencidos")
	return swept, err
}

// Start corre el ciclo hasta que ctx se cancele. Bloquea; lanzarlo en una goroutine.
func (j *SweepJob) Start(ctx context.Context) {
	if j.interval <= 0 {
		j.log.Info().Msg("barrido periódico deshabilitado")
		return
	}
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()
	j.log.Info().Dur("interval", j.interval).Msg("barrido periódico iniciado")
	_, _ = j.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			j.log.Info().Msg("barrido periódico detenido")
			return
		case <-ticker.C:
			_, _ = j.RunOnce(ctx)
		}
	}
}
