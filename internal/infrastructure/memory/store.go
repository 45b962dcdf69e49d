// Package memory implementa los repositorios en memoria, para tests y entornos efímeros
// (APP_STORAGE=memory). Las transacciones trabajan sobre un clon del estado que solo se
// publica si fn no devuelve error.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/Catalogo-servidores-api/internal/domain/entity"
)

type state struct {
	targets         map[entity.TargetRef]entity.PriceTarget
	discounts       map[string]entity.Discount
	discountTargets map[string][]entity.TargetRef
	levels          map[entity.StockKey]entity.StockLevel
	movements       map[string]entity.StockMovement
	suppliers       map[string]entity.Supplier
	customers       map[string]entity.Customer
	audits          []entity.AuditLog
}

func newState() state {
	return state{
		targets:         make(map[entity.TargetRef]entity.PriceTarget),
		discounts:       make(map[string]entity.Discount),
		discountTargets: make(map[string][]entity.TargetRef),
		levels:          make(map[entity.StockKey]entity.StockLevel),
		movements:       make(map[string]entity.StockMovement),
		suppliers:       make(map[string]entity.Supplier),
		customers:       make(map[string]entity.Customer),
	}
}

func (s state) clone() state {
	c := newState()
	for k, v := range s.targets {
		c.targets[k] = v
	}
	for k, v := range s.discounts {
		c.discounts[k] = v
	}
	for k, v := range s.discountTargets {
		c.discountTargets[k] = append([]entity.TargetRef(nil), v...)
	}
	for k, v := range s.levels {
		c.levels[k] = v
	}
	for k, v := range s.movements {
		c.movements[k] = v
	}
	for k, v := range s.suppliers {
		c.suppliers[k] = v
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	c.audits = append([]entity.AuditLog(nil), s.audits...)
	return c
}

// Store estado compartido. Las transacciones se serializan con mu.
type Store struct {
	mu    sync.RWMutex
	state state
	nowFn func() time.Time
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{state: newState(), nowFn: time.Now}
}

// access ejecuta fn sobre el estado. Los repositorios fuera de transacción toman el
// candado del store; los de una transacción trabajan sobre el clon sin candado.
type access func(write bool, fn func(st *state) error) error

func (s *Store) direct(write bool, fn func(st *state) error) error {
	if write {
		s.mu.Lock()
		defer s.mu.Unlock()
	} else {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	return fn(&s.state)
}

// run clona el estado, ejecuta fn y publica el clon solo si fn termina sin error.
// Los repositorios sin transacción del mismo Store no deben usarse dentro de fn.
func (s *Store) run(ctx context.Context, fn func(acc access) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := s.state.clone()
	acc := func(_ bool, f func(st *state) error) error { return f(&tx) }
	if err := fn(acc); err != nil {
		return err
	}
	s.state = tx
	return nil
}

// AddTarget registra un servidor o componente con su precio.
func (s *Store) AddTarget(t entity.PriceTarget) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.targets[t.Ref] = t
}

// AddSupplier registra un proveedor.
func (s *Store) AddSupplier(sup entity.Supplier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.suppliers[sup.ID] = sup
}

// AuditLogs copia del registro de auditoría en orden de inserción.
func (s *Store) AuditLogs() []entity.AuditLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.AuditLog(nil), s.state.audits...)
}
