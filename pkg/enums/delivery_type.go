package enums

import (
	"fmt"
	"strings"
)

// DeliveryType is how the shopper receives the order.
type DeliveryType string

const (
	DeliveryTypePickup   DeliveryType = "retiro"
	DeliveryTypeShipping DeliveryType = "envio"
)

var validDeliveryTypes = []DeliveryType{
	DeliveryTypePickup,
	DeliveryTypeShipping,
}

// String implements fmt.Stringer.
func (d DeliveryType) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DeliveryType.
func (d DeliveryType) IsValid() bool {
	for _, candidate := range validDeliveryTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// DeliveryTypeValues lists the known delivery types in display order.
func DeliveryTypeValues() []string {
	out := make([]string, 0, len(validDeliveryTypes))
	for _, candidate := range validDeliveryTypes {
		out = append(out, candidate.String())
	}
	return out
}

// ParseDeliveryType converts raw input into a DeliveryType.
func ParseDeliveryType(value string) (DeliveryType, error) {
	d := DeliveryType(strings.ToLower(strings.TrimSpace(value)))
	if !d.IsValid() {
		return "", fmt.Errorf("invalid delivery type %q", value)
	}
	return d, nil
}
