// Package otif modela el seguimiento On-Time-In-Full de embarques: estados,
// transiciones permitidas, el mapeo de cada estado a su hito y la evaluación OTIF.
package otif

import "strings"

// Estados OTIF de un embarque, en orden de avance.
const (
	StatusBooked         = "BOOKED"
	StatusCargoReceived  = "CARGO_RECEIVED"
	StatusDeparted       = "DEPARTED"
	StatusInTransit      = "IN_TRANSIT"
	StatusArrived        = "ARRIVED"
	StatusCustomsCleared = "CUSTOMS_CLEARED"
	StatusDelivered      = "DELIVERED"
	StatusCancelled      = "CANCELLED"
)

// DateField indica qué fecha real se sella al entrar a un estado.
type DateField int

const (
	DateNone DateField = iota
	DateATD
	DateATA
	DateDelivered
)

// Milestone describe un estado para la UI, el portal y las notificaciones.
type Milestone struct {
	Status         string
	Label          string // etiqueta interna (operaciones)
	CustomerLabel  string // etiqueta del portal de clientes
	Progress       int    // 0..100
	Stamps         DateField
	NotifyCustomer bool
	Terminal       bool
}

var milestones = map[string]Milestone{
	StatusBooked:         {Status: StatusBooked, Label: "Reserva confirmada", CustomerLabel: "Booked", Progress: 10, NotifyCustomer: true},
	StatusCargoReceived:  {Status: StatusCargoReceived, Label: "Carga recibida", CustomerLabel: "Cargo received", Progress: 25},
	StatusDeparted:       {Status: StatusDeparted, Label: "Zarpe / despegue", CustomerLabel: "Departed", Progress: 40, Stamps: DateATD, NotifyCustomer: true},
	StatusInTransit:      {Status: StatusInTransit, Label: "En tránsito", CustomerLabel: "In transit", Progress: 55},
	StatusArrived:        {Status: StatusArrived, Label: "Arribo a destino", CustomerLabel: "Arrived", Progress: 75, Stamps: DateATA, NotifyCustomer: true},
	StatusCustomsCleared: {Status: StatusCustomsCleared, Label: "Nacionalizada", CustomerLabel: "Customs cleared", Progress: 90},
	StatusDelivered:      {Status: StatusDelivered, Label: "Entregada", CustomerLabel: "Delivered", Progress: 100, Stamps: DateDelivered, NotifyCustomer: true, Terminal: true},
	StatusCancelled:      {Status: StatusCancelled, Label: "Cancelada", CustomerLabel: "Cancelled", Progress: 0, NotifyCustomer: true, Terminal: true},
}

var transitions = map[string][]string{
	StatusBooked:         {StatusCargoReceived, StatusDeparted, StatusCancelled},
	StatusCargoReceived:  {StatusDeparted, StatusCancelled},
	StatusDeparted:       {StatusInTransit, StatusArrived},
	StatusInTransit:      {StatusArrived},
	StatusArrived:        {StatusCustomsCleared, StatusDelivered},
	StatusCustomsCleared: {StatusDelivered},
}

// Valid informa si status es un estado OTIF conocido.
func Valid(status string) bool {
	_, ok := milestones[status]
	return ok
}

// Describe devuelve el hito asociado al estado. ok=false si el estado no existe.
func Describe(status string) (Milestone, bool) {
	m, ok := milestones[status]
	return m, ok
}

// IsTerminal informa si el estado no admite más transiciones.
func IsTerminal(status string) bool {
	return milestones[status].Terminal
}

// CanTransition informa si el embarque puede pasar de from a to.
func CanTransition(from, to string) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Next devuelve los estados alcanzables desde from.
func Next(from string) []string {
	out := make([]string, len(transitions[from]))
	copy(out, transitions[from])
	return out
}

// PathTo devuelve la secuencia más corta de estados (sin incluir from) para llegar a
// target avanzando por la tabla. nil si target no es alcanzable.
func PathTo(from, target string) []string {
	if from == target {
		return nil
	}
	type node struct {
		status string
		path   []string
	}
	seen := map[string]bool{from: true}
	queue := []node{{status: from}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nxt := range transitions[cur.status] {
			if seen[nxt] {
				continue
			}
			seen[nxt] = true
			path := append(append([]string{}, cur.path...), nxt)
			if nxt == target {
				return path
			}
			queue = append(queue, node{status: nxt, path: path})
		}
	}
	return nil
}

// Reached informa si current ya está en target o más adelante.
func Reached(current, target string) bool {
	if current == target {
		return true
	}
	if current == StatusCancelled || target == StatusCancelled {
		return false
	}
	return milestones[current].Progress >= milestones[target].Progress
}

// carrierEvents traduce códigos de eventos de navieras/aerolíneas/track&trace a estados.
var carrierEvents = map[string]string{
	"BKD":              StatusBooked,
	"BOOKED":           StatusBooked,
	"GATE_IN":          StatusCargoReceived,
	"RECEIVED":         StatusCargoReceived,
	"RCS":              StatusCargoReceived,
	"LOADED":           StatusDeparted,
	"DEPARTED":         StatusDeparted,
	"VESSEL_DEPARTURE": StatusDeparted,
	"DEP":              StatusDeparted,
	"TRANSSHIPMENT":    StatusInTransit,
	"IN_TRANSIT":       StatusInTransit,
	"ARRIVED":          StatusArrived,
	"VESSEL_ARRIVAL":   StatusArrived,
	"ARR":              StatusArrived,
	"DISCHARGED":       StatusArrived,
	"CUSTOMS_RELEASE":  StatusCustomsCleared,
	"GATE_OUT":         StatusCustomsCleared,
	"DELIVERED":        StatusDelivered,
	"DLV":              StatusDelivered,
	"POD":              StatusDelivered,
}

// FromCarrierEvent traduce un código de evento externo a estado OTIF.
func FromCarrierEvent(code string) (string, bool) {
	s, ok := carrierEvents[strings.ToUpper(strings.TrimSpace(code))]
	return s, ok
}
