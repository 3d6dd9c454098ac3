package command

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vasiliy-maslov/lunch-order/internal/clock"
	"github.com/vasiliy-maslov/lunch-order/internal/mail"
	"github.com/vasiliy-maslov/lunch-order/internal/order"
	"github.com/vasiliy-maslov/lunch-order/internal/render"
)

const mailSubject = "Order"

// Settings is the configuration-driven part of every reply.
type Settings struct {
	CommandName     string
	RestaurantName  string
	RestaurantPhone string
	RestaurantEmail string
	StartHour       string
	EndHour         string
	Example         string
	SendByMail      bool
	SenderEmail     string
	Keywords        Keywords
}

// Router turns a keyword and its arguments into a Reply.
//
// Domain rejections (closed window, not the initiator, malformed send
// arguments, failed delivery...) are ordinary replies with a nil error.
// A non-nil error means storage failed and the adapter should report a
// service-level failure.
type Router struct {
	settings Settings
	keywords Keywords
	window   Window
	orders   order.Service
	renderer Renderer
	mailer   Mailer
	clock    clock.Clock
}

// NewRouter validates the ordering window once. Malformed bounds are fatal:
// no router is returned and the service must not start.
func NewRouter(settings Settings, orders order.Service, renderer Renderer, mailer Mailer, clk clock.Clock) (*Router, error) {
	window, err := ParseWindow(settings.StartHour, settings.EndHour)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		return nil, errors.New("command: order service is required")
	}
	if clk == nil {
		return nil, errors.New("command: clock is required")
	}
	if settings.SendByMail && (renderer == nil || mailer == nil) {
		return nil, errors.New("command: sending by mail needs a renderer and a mailer")
	}

	return &Router{
		settings: settings,
		keywords: settings.Keywords.withDefaults(),
		window:   window,
		orders:   orders,
		renderer: renderer,
		mailer:   mailer,
		clock:    clk,
	}, nil
}

// Decode resolves the keyword with the configured vocabulary.
func (r *Router) Decode(keyword string) Command {
	return r.keywords.Decode(keyword)
}

// Dispatch runs one command for caller. args is the whole token list as
// typed, args[0] being the keyword itself.
func (r *Router) Dispatch(ctx context.Context, keyword string, args []string, caller string) (Reply, error) {
	cmd := r.Decode(keyword)
	log.Debug().Stringer("command", cmd).Str("caller", caller).Int("args", len(args)).Msg("router: dispatching command")

	switch cmd {
	case CommandOrder:
		return r.addOrder(ctx, caller, args)
	case CommandCancel:
		return r.cancelOrder(ctx, caller)
	case CommandList:
		return r.orderList(ctx)
	case CommandSend:
		return r.send(ctx, caller, args)
	case CommandHelp:
		return r.help(), nil
	case CommandRandom:
		return r.random(), nil
	default:
		return r.unknown(keyword), nil
	}
}

func (r *Router) today() (now, day time.Time) {
	now = r.clock.Now()
	return now, order.Day(now)
}

func (r *Router) phoneFallback(format string) Attachment {
	return Attachment{
		Fallback: "Fail ?",
		Text:     fmt.Sprintf(format, r.settings.RestaurantName, r.settings.RestaurantPhone),
	}
}

func (r *Router) addOrder(ctx context.Context, caller string, args []string) (Reply, error) {
	now, day := r.today()
	if !r.window.Contains(now) {
		return Reply{
			Text:        fmt.Sprintf("Sorry, orders are only accepted from %s to %s", r.window.Start(), r.window.End()),
			Attachments: []Attachment{r.phoneFallback("You can still call %s at %s")},
		}, nil
	}

	content := strings.Join(tail(args, 1), " ")
	if _, err := r.orders.Upsert(ctx, caller, day, content); err != nil {
		return Reply{}, fmt.Errorf("router: order: %w", err)
	}

	return Reply{
		Text: fmt.Sprintf("%s joined the group lunch order, if you want to do the same use the command `%s %s`",
			caller, r.settings.CommandName, r.keywords.Order),
		Markdown:  true,
		InChannel: true,
	}, nil
}

func (r *Router) cancelOrder(ctx context.Context, caller string) (Reply, error) {
	now, day := r.today()
	if !r.window.Contains(now) {
		note := r.phoneFallback("You can still try calling %s at %s")
		note.Color = ColorDanger
		return Reply{
			Text:        "It is too late to cancel your order.",
			Attachments: []Attachment{note},
		}, nil
	}

	_, err := r.orders.FindOne(ctx, caller, day)
	if errors.Is(err, order.ErrOrderNotFound) {
		return Reply{Text: "You hadn't ordered anything, but no harm done."}, nil
	}
	if err != nil {
		return Reply{}, fmt.Errorf("router: cancel: %w", err)
	}

	if err := r.orders.Remove(ctx, caller, day); err != nil {
		return Reply{}, fmt.Errorf("router: cancel: %w", err)
	}

	return Reply{Text: "Your order has been cancelled."}, nil
}

func (r *Router) orderList(ctx context.Context) (Reply, error) {
	_, day := r.today()
	records, err := r.orders.FindForDay(ctx, day)
	if err != nil {
		return Reply{}, fmt.Errorf("router: list: %w", err)
	}

	if len(records) == 0 {
		return Reply{Text: "Nobody ordered today"}, nil
	}

	attachments := make([]Attachment, 0, len(records))
	for _, rec := range records {
		line := fmt.Sprintf("%s ordered: %s", rec.Identity, rec.Content)
		attachments = append(attachments, Attachment{Fallback: line, Text: line})
	}

	return Reply{
		Text:        "*Here are the people you are having lunch with:*",
		Markdown:    true,
		Attachments: attachments,
	}, nil
}

func (r *Router) send(ctx context.Context, caller string, args []string) (Reply, error) {
	_, day := r.today()

	initiator, err := r.orders.EarliestForDay(ctx, day)
	if errors.Is(err, order.ErrOrderNotFound) {
		return Reply{Text: "*No order was placed today.*"}, nil
	}
	if err != nil {
		return Reply{}, fmt.Errorf("router: send: %w", err)
	}

	if initiator.Identity != caller {
		return Reply{
			Text: fmt.Sprintf("*You did not start this order, ask %s to send it.*", initiator.Identity),
		}, nil
	}

	if !r.settings.SendByMail {
		return Reply{
			Text: fmt.Sprintf("*Sending the order by e-mail is not enabled, please phone the order in at %s.*", r.settings.RestaurantPhone),
		}, nil
	}

	var hour string
	if len(args) > 1 {
		hour = args[1]
	}
	if !IsValidClockString(hour) {
		return Reply{Text: fmt.Sprintf("*The time format is not correct (%s)*", hour)}, nil
	}

	phoneNumber := strings.Join(tail(args, 2), "")
	if !IsValidPhoneDigits(phoneNumber) {
		return Reply{Text: fmt.Sprintf("*The phone number format is not correct (%s)*", phoneNumber)}, nil
	}

	records, err := r.orders.FindForDay(ctx, day)
	if err != nil {
		return Reply{}, fmt.Errorf("router: send: %w", err)
	}

	if sent := r.sendEmail(ctx, hour, phoneNumber, caller, records); sent == 0 {
		return Reply{
			Text: fmt.Sprintf("*The e-mail was not sent, please phone the order in at %s.*", r.settings.RestaurantPhone),
		}, nil
	}

	return Reply{
		Text: "*The order has been sent*",
		Attachments: []Attachment{{
			Fallback: "Fail ?",
			Text:     fmt.Sprintf("%s, could you still confirm by phone at %s?", capitalize(initiator.Identity), r.settings.RestaurantPhone),
			Color:    ColorDanger,
		}},
	}, nil
}

// sendEmail returns the number of recipients reached; every failure counts as zero.
func (r *Router) sendEmail(ctx context.Context, hour, phoneNumber, caller string, records []order.Record) int {
	body, err := r.renderer.RenderOrder(render.OrderMail{
		Caller:      caller,
		Hour:        hour,
		PhoneNumber: phoneNumber,
		Orders:      records,
	})
	if err != nil {
		log.Error().Err(err).Str("caller", caller).Msg("router: failed to render order mail")
		return 0
	}

	sent, err := r.mailer.Send(ctx, mail.Message{
		Subject: mailSubject,
		From:    r.settings.SenderEmail,
		To:      []string{r.settings.RestaurantEmail},
		Body:    body,
		HTML:    true,
	})
	if err != nil {
		log.Error().Err(err).Str("caller", caller).Msg("router: failed to send order mail")
		return 0
	}

	log.Info().Str("caller", caller).Int("recipients", sent).Int("orders", len(records)).Msg("router: order mail sent")
	return sent
}

func (r *Router) help() Reply {
	name := r.settings.CommandName
	kw := r.keywords

	var b strings.Builder
	b.WriteString("*Hungry but not sure how this works?*\n")
	fmt.Fprintf(&b, "- To place or change an order: `%s %s %s`\n", name, kw.Order, r.settings.Example)
	fmt.Fprintf(&b, "- Not hungry anymore? `%s %s`\n", name, kw.Cancel)
	fmt.Fprintf(&b, "- Want to know who you are having lunch with? `%s %s`\n", name, kw.List)
	fmt.Fprintf(&b, "- Want to send the order to %s? `%s %s hh:mm 06********`", r.settings.RestaurantName, name, kw.Send)

	return Reply{
		Text:     b.String(),
		Markdown: true,
		Attachments: []Attachment{{
			Fallback: "Fail ?",
			Text:     fmt.Sprintf("Important: you have until %s to place your order.", r.window.End()),
			Color:    ColorDanger,
		}},
	}
}

// TODO: decide with product what random should pick (a participant, a dish); until then it only answers.
func (r *Router) random() Reply {
	return Reply{Text: fmt.Sprintf("The `%s` command is not available yet.", r.keywords.Random)}
}

func (r *Router) unknown(keyword string) Reply {
	reply := r.help()
	reply.Text = fmt.Sprintf("Unknown command `%s`.\n", keyword) + reply.Text
	return reply
}

// capitalize upper-cases the first letter only, the rest is left as typed.
func capitalize(s string) string {
	first, size := utf8.DecodeRuneInString(s)
	if first == utf8.RuneError {
		return s
	}
	return cases.Upper(language.Und).String(string(first)) + s[size:]
}

func tail(args []string, from int) []string {
	if len(args) <= from {
		return nil
	}
	return args[from:]
}
