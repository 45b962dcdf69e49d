package entity

// ComponentKind categoría de hardware. Conjunto cerrado: no hay registro dinámico de tipos.
type ComponentKind string

const (
	KindRAM             ComponentKind = "ram"
	KindProcessor       ComponentKind = "processor"
	KindMotherboard     ComponentKind = "motherboard"
	KindRaidController  ComponentKind = "raid_controller"
	KindChassis         ComponentKind = "chassis"
	KindFiberOpticCard  ComponentKind = "fiber_optic_card"
	KindHardDrive       ComponentKind = "hard_drive"
	KindNetworkCard     ComponentKind = "network_card"
	KindPowerSupply     ComponentKind = "power_supply"
	KindCoolingSolution ComponentKind = "cooling_solution"
	KindGraphicCard     ComponentKind = "graphic_card"
	KindExpansionCard   ComponentKind = "expansion_card"
	KindBattery         ComponentKind = "battery"
	KindCableConnector  ComponentKind = "cable_connector"
)

// componentTables tipo -> tabla. Es configuración, no lógica; debe mantenerse exacta.
var componentTables = map[ComponentKind]string{
	KindRAM:             "rams",
	KindProcessor:       "processors",
	KindMotherboard:     "motherboards",
	KindRaidController:  "raid_controllers",
	KindChassis:         "chassis",
	KindFiberOpticCard:  "fiber_optic_cards",
	KindHardDrive:       "hard_drives",
	KindNetworkCard:     "network_cards",
	KindPowerSupply:     "power_supplies",
	KindCoolingSolution: "cooling_solutions",
	KindGraphicCard:     "graphic_cards",
	KindExpansionCard:   "expansion_cards",
	KindBattery:         "batteries",
	KindCableConnector:  "cable_connectors",
}

// ComponentKinds devuelve los catorce tipos en orden estable.
func ComponentKinds() []ComponentKind {
	return []ComponentKind{
		KindRAM, KindProcessor, KindMotherboard, KindRaidController, KindChassis,
		KindFiberOpticCard, KindHardDrive, KindNetworkCard, KindPowerSupply,
		KindCoolingSolution, KindGraphicCard, KindExpansionCard, KindBattery, KindCableConnector,
	}
}

// ParseComponentKind valida s contra el conjunto cerrado.
func ParseComponentKind(s string) (ComponentKind, bool) {
	k := ComponentKind(s)
	_, ok := componentTables[k]
	return k, ok
}

// Table nombre de la tabla del tipo ("" si el tipo no existe).
func (k ComponentKind) Table() string { return componentTables[k] }
