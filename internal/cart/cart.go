// Package cart holds the in-memory shopping cart of a catalog session.
package cart

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pedidos-storefront/pkg/money"
)

const emptySummaryText = "Carrito vacío"

// Line is one cart entry. UnitPrice is a snapshot taken when the product was first added.
type Line struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// Total is the line amount, quantity times unit price.
func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart keeps one line per product in insertion order. It is not safe for concurrent use;
// callers serialise access through their session.
type Cart struct {
	lines []Line
	index map[int64]int
}

func New() *Cart {
	return &Cart{index: map[int64]int{}}
}

// Add puts one unit of the product in the cart. A product already present has its quantity
// incremented and keeps its original price snapshot.
func (c *Cart) Add(productID int64, name string, unitPrice decimal.Decimal) Line {
	if c.index == nil {
		c.index = map[int64]int{}
	}
	if pos, ok := c.index[productID]; ok {
		c.lines[pos].Quantity++
		return c.lines[pos]
	}
	line := Line{ProductID: productID, Name: name, UnitPrice: unitPrice, Quantity: 1}
	c.index[productID] = len(c.lines)
	c.lines = append(c.lines, line)
	return line
}

// Count is the total number of units across all lines.
func (c *Cart) Count() int {
	total := 0
	for _, line := range c.lines {
		total += line.Quantity
	}
	return total
}

func (c *Cart) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, line := range c.lines {
		subtotal = subtotal.Add(line.Total())
	}
	return subtotal
}

// Lines returns a copy of the cart lines.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) Reset() {
	c.lines = nil
	c.index = map[int64]int{}
}

// Summary is the cart view model shown next to the checkout button.
type Summary struct {
	Text            string `json:"text"`
	Items           int    `json:"items"`
	Subtotal        string `json:"subtotal"`
	CheckoutEnabled bool   `json:"checkout_enabled"`
}

func (c *Cart) Summary() Summary {
	count := c.Count()
	subtotal := money.Format(c.Subtotal())
	if count == 0 {
		return Summary{Text: emptySummaryText, Subtotal: subtotal}
	}
	return Summary{
		Text:            fmt.Sprintf("%d ítems · Subtotal %s", count, subtotal),
		Items:           count,
		Subtotal:        subtotal,
		CheckoutEnabled: true,
	}
}
