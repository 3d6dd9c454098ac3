package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vasiliy-maslov/lunch-order/internal/order"
	"github.com/vasiliy-maslov/lunch-order/internal/render"
)

func TestTemplateRenderer_RenderOrder(t *testing.T) {
	r, err := render.NewTemplateRenderer()
	require.NoError(t, err)

	body, err := r.RenderOrder(render.OrderMail{
		Caller:      "alice",
		Hour:        "12:30",
		PhoneNumber: "0601020304",
		Orders: []order.Record{
			{Identity: "alice", Content: "pizza"},
			{Identity: "bob", Content: "salad <no onions>"},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, body, "<strong>12:30</strong>")
	assert.Contains(t, body, "<strong>alice</strong>: pizza")
	assert.Contains(t, body, "salad &lt;no onions&gt;")
	assert.Contains(t, body, "2 order(s) in total")
	assert.Contains(t, body, "call alice on 0601020304")
}
