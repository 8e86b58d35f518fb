// Package delivery resolves the delivery zone a shopper picks at checkout.
package delivery

import (
	"strconv"
	"strings"

	"github.com/angelmondragon/pedidos-storefront/pkg/backend"
	"github.com/angelmondragon/pedidos-storefront/pkg/money"
)

const (
	NoZonesLabel     = "Sin envío configurado"
	PlaceholderLabel = "Seleccionar zona..."
	CoordinateNotice = "Si eliges envío, coordinarás el costo y la zona con el comercio por WhatsApp."
)

// Option is one entry of the zone select. The placeholder has an empty value.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Selector offers zero or one zone out of a store's configured zones.
type Selector struct {
	zones []backend.DeliveryZone
}

func NewSelector(zones []backend.DeliveryZone) *Selector {
	copied := make([]backend.DeliveryZone, len(zones))
	copy(copied, zones)
	return &Selector{zones: copied}
}

// Enabled is false when the store has no zones; the zone is then always nil and delivery is
// coordinated by hand.
func (s *Selector) Enabled() bool {
	return s != nil && len(s.zones) > 0
}

func (s *Selector) Options() []Option {
	if !s.Enabled() {
		return []Option{{Label: NoZonesLabel}}
	}
	options := make([]Option, 0, len(s.zones)+1)
	options = append(options, Option{Label: PlaceholderLabel})
	for _, zone := range s.zones {
		label := zone.Name + " (" + money.Format(zone.Price) + ")" + freeFromSuffix(zone)
		options = append(options, Option{Value: strconv.FormatInt(zone.ID, 10), Label: label})
	}
	return options
}

// Lookup matches raw against zone ids as strings. Empty or unknown values resolve to nil.
func (s *Selector) Lookup(raw string) *backend.DeliveryZone {
	raw = strings.TrimSpace(raw)
	if raw == "" || s == nil {
		return nil
	}
	for i := range s.zones {
		if strconv.FormatInt(s.zones[i].ID, 10) == raw {
			zone := s.zones[i]
			return &zone
		}
	}
	return nil
}

// Describe renders the one-line delivery info for the selected value.
func (s *Selector) Describe(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return CoordinateNotice
	}
	zone := s.Lookup(raw)
	if zone == nil {
		return ""
	}
	return "Zona " + zone.Name + ": envío " + money.Format(zone.Price) + freeFromSuffix(*zone)
}

// ZoneID returns the id to send with the order draft, nil when nothing is selected.
func (s *Selector) ZoneID(raw string) *int64 {
	zone := s.Lookup(raw)
	if zone == nil {
		return nil
	}
	id := zone.ID
	return &id
}

func freeFromSuffix(zone backend.DeliveryZone) string {
	if !money.Positive(zone.MinTotalFree) {
		return ""
	}
	return " · Gratis desde " + money.Format(*zone.MinTotalFree)
}
