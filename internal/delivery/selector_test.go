package delivery

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/pedidos-storefront/pkg/backend"
)

func testZones() []backend.DeliveryZone {
	free := decimal.NewFromInt(20)
	return []backend.DeliveryZone{
		{ID: 1, Name: "Centro", Price: decimal.NewFromInt(5), MinTotalFree: &free},
		{ID: 12, Name: "Norte", Price: decimal.RequireFromString("7.5")},
	}
}

func TestSelectorWithoutZones(t *testing.T) {
	t.Parallel()

	selector := NewSelector(nil)
	assert.False(t, selector.Enabled())
	assert.Equal(t, []Option{{Label: "Sin envío configurado"}}, selector.Options())
	assert.Nil(t, selector.ZoneID("1"))
}

func TestSelectorOptions(t *testing.T) {
	t.Parallel()

	selector := NewSelector(testZones())
	require.True(t, selector.Enabled())
	assert.Equal(t, []Option{
		{Value: "", Label: "Seleccionar zona..."},
		{Value: "1", Label: "Centro ($5.00) · Gratis desde $20.00"},
		{Value: "12", Label: "Norte ($7.50)"},
	}, selector.Options())
}

func TestSelectorDescribe(t *testing.T) {
	t.Parallel()

	selector := NewSelector(testZones())
	cases := map[string]string{
		"":   "Si eliges envío, coordinarás el costo y la zona con el comercio por WhatsApp.",
		"1":  "Zona Centro: envío $5.00 · Gratis desde $20.00",
		"12": "Zona Norte: envío $7.50",
		"99": "",
	}
	for raw, want := range cases {
		assert.Equal(t, want, selector.Describe(raw), raw)
	}
}

func TestSelectorLookupMatchesStringIDs(t *testing.T) {
	t.Parallel()

	selector := NewSelector(testZones())
	zone := selector.Lookup("12")
	require.NotNil(t, zone)
	assert.Equal(t, "Norte", zone.Name)

	assert.Nil(t, selector.Lookup("012"))
	assert.Nil(t, selector.Lookup("abc"))

	id := selector.ZoneID(" 1 ")
	require.NotNil(t, id)
	assert.Equal(t, int64(1), *id)
	assert.Nil(t, selector.ZoneID(""))
}
