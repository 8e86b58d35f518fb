package checkout

import (
	"strconv"
	"strings"

	"github.com/angelmondragon/pedidos-storefront/internal/cart"
	"github.com/angelmondragon/pedidos-storefront/pkg/backend"
	"github.com/angelmondragon/pedidos-storefront/pkg/money"
	"github.com/angelmondragon/pedidos-storefront/pkg/uri"
)

// newline is the already-encoded line break used inside the deep link text parameter.
const newline = "%0A"

// ComposeMessage assembles the WhatsApp text. Order is nil on the degraded path, in which
// case the order number and every backend total are left out.
func ComposeMessage(lines []cart.Line, order *backend.Order, input Input) string {
	var b strings.Builder
	b.WriteString("Hola! Quiero hacer este pedido:" + newline + newline)

	if order != nil && order.ID != 0 {
		b.WriteString("Pedido #" + strconv.FormatInt(order.ID, 10) + newline + newline)
	}

	for _, line := range lines {
		b.WriteString("- " + uri.EncodeComponent(line.Name) + " x" + strconv.Itoa(line.Quantity))
		b.WriteString(" (" + money.Format(line.UnitPrice) + " c/u)" + newline)
	}

	if order != nil {
		b.WriteString(newline + "Subtotal: " + money.Format(order.Subtotal))
		if order.DeliveryPrice.IsPositive() {
			b.WriteString(newline + "Envío (" + uri.EncodeComponent(deref(order.DeliveryZoneName)) + "): " + money.Format(order.DeliveryPrice))
		}
		if order.DiscountValue.IsPositive() {
			b.WriteString(newline + "Descuento: -" + money.Format(order.DiscountValue) + " (código " + uri.EncodeComponent(deref(order.CouponCode)) + ")")
		}
		b.WriteString(newline + "Total: " + money.Format(order.Total))
	}

	input = input.normalized()
	writeField(&b, newline+newline+"Nombre: ", input.CustomerName)
	writeField(&b, newline+"Dirección/zona: ", input.CustomerAddress)
	writeField(&b, newline+"Tipo de entrega: ", input.DeliveryType)
	writeField(&b, newline+"Forma de pago: ", input.PaymentMethod)
	writeField(&b, newline+"Comentario: ", input.CustomerNote)

	return b.String()
}

// DeepLink builds https://<domain>/<number>?text=<text>. The %0A separators and encoded
// fields of the composed text are kept; the remaining characters, '#' included, are escaped
// so the whole message stays in the text parameter.
func DeepLink(domain, number, text string) string {
	domain = strings.Trim(strings.TrimSpace(domain), "/")
	if domain == "" {
		domain = DefaultMessagingDomain
	}
	return "https://" + domain + "/" + strings.TrimSpace(number) + "?text=" + uri.EscapeQueryValue(text)
}

func writeField(b *strings.Builder, prefix, value string) {
	if value == "" {
		return
	}
	b.WriteString(prefix + uri.EncodeComponent(value))
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
