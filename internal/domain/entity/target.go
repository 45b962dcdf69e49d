package entity

import (
	"sort"

	"github.com/shopspring/decimal"
)

// TargetType tipo de destino de un descuento: "server" o uno de los catorce ComponentKind.
type TargetType string

// TargetTypeServer destino servidor (distinto de descontar sus componentes).
const TargetTypeServer TargetType = "server"

// ParseTargetType valida s: "server" o un tipo de componente conocido.
func ParseTargetType(s string) (TargetType, bool) {
	t := TargetType(s)
	if t == TargetTypeServer {
		return t, true
	}
	if _, ok := ParseComponentKind(s); ok {
		return t, true
	}
	return "", false
}

// IsServer indica si el destino es un servidor.
func (t TargetType) IsServer() bool { return t == TargetTypeServer }

// ComponentKind devuelve el tipo de componente si el destino es un componente.
func (t TargetType) ComponentKind() (ComponentKind, bool) {
	if t.IsServer() {
		return "", false
	}
	return ParseComponentKind(string(t))
}

// Table tabla donde vive el precio del destino.
func (t TargetType) Table() (string, bool) {
	if t.IsServer() {
		return "servers", true
	}
	k, ok := t.ComponentKind()
	if !ok {
		return "", false
	}
	return k.Table(), true
}

// TargetRef referencia a un destino con precio (variante etiquetada servidor | componente).
type TargetRef struct {
	Type TargetType `json:"type"`
	ID   string     `json:"id"`
}

// ComponentRef construye la referencia a un componente.
func ComponentRef(kind ComponentKind, id string) TargetRef {
	return TargetRef{Type: TargetType(kind), ID: id}
}

// ServerRef construye la referencia a un servidor.
func ServerRef(id string) TargetRef {
	return TargetRef{Type: TargetTypeServer, ID: id}
}

// Less orden total (tipo, id); se usa para tomar bloqueos siempre en el mismo orden.
func (r TargetRef) Less(o TargetRef) bool {
	if r.Type != o.Type {
		return r.Type < o.Type
	}
	return r.ID < o.ID
}

// SortTargetRefs ordena in-place.
func SortTargetRefs(refs []TargetRef) {
	sort.Slice(refs, func(i, j int) bool { return refs[i].Less(refs[j]) })
}

// PriceTarget vista mínima de un servidor o componente para el motor de descuentos.
type PriceTarget struct {
	Ref   TargetRef
	Name  string
	Price decimal.Decimal
}
