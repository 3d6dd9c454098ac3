package command

import (
	"context"

	"github.com/vasiliy-maslov/lunch-order/internal/mail"
	"github.com/vasiliy-maslov/lunch-order/internal/render"
)

// Renderer produces the body of the order e-mail.
type Renderer interface {
	RenderOrder(data render.OrderMail) (string, error)
}

// Mailer delivers a message and reports how many recipients accepted it.
// Zero recipients is a failed delivery. Implementations bound their own
// latency; the router never waits on them without a deadline.
type Mailer interface {
	Send(ctx context.Context, msg mail.Message) (int, error)
}
