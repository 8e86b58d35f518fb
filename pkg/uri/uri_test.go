package uri

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeComponent(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Ana López":      "Ana%20L%C3%B3pez",
		"a+b&c=d#e":      "a%2Bb%26c%3Dd%23e",
		"(hola)! ~*'._-": "(hola)!%20~*'._-",
		"":               "",
	}
	for in, want := range cases {
		assert.Equal(t, want, EncodeComponent(in), in)
	}
}

func TestEscapeQueryValueKeepsExistingEscapes(t *testing.T) {
	t.Parallel()

	got := EscapeQueryValue("Pedido #42%0A%0ANombre: Ana%20L%C3%B3pez 100%")
	assert.Equal(t, "Pedido%20%2342%0A%0ANombre%3A%20Ana%20L%C3%B3pez%20100%25", got)

	values, err := url.ParseQuery("text=" + got)
	require.NoError(t, err)
	assert.Equal(t, "Pedido #42\n\nNombre: Ana López 100%", values.Get("text"))
}
