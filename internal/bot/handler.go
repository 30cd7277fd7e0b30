// Package bot is the Telegram transport: it routes inbound messages to the
// dialogue machine and the report service, and renders replies as text,
// keyboards and chart photos.
package bot

import (
	"context"
	"errors"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"budgetbot/internal/core"
	"budgetbot/internal/dialog"
	"budgetbot/internal/log"
)

// Reporter answers balance and statistics queries.
type Reporter interface {
	Balance(ctx context.Context, userID int64) (decimal.Decimal, error)
	MonthlyReport(ctx context.Context, userID int64, month core.Month) (core.MonthlyReport, error)
}

// ChartRenderer turns a monthly report into an image artifact. The
// transport treats the bytes as opaque.
type ChartRenderer interface {
	Render(core.MonthlyReport) ([]byte, error)
}

// sender is the slice of the Telegram API the handler needs for replies.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Handler struct {
	api     *tgbotapi.BotAPI
	send    sender
	machine *dialog.Machine
	reports Reporter
	charts  ChartRenderer
	clock   dialog.Clock

	pollTimeout time.Duration
	workers     int
	logger      *log.Logger
}

type Options struct {
	PollTimeout time.Duration
	Workers     int
}

func New(api *tgbotapi.BotAPI, machine *dialog.Machine, reports Reporter, charts ChartRenderer, clock dialog.Clock, opts Options, logger *log.Logger) *Handler {
	if clock == nil {
		clock = time.Now
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Handler{
		api:         api,
		send:        api,
		machine:     machine,
		reports:     reports,
		charts:      charts,
		clock:       clock,
		pollTimeout: opts.PollTimeout,
		workers:     opts.Workers,
		logger:      logger.WithComponent(log.ComponentBot),
	}
}

// Run consumes the long-poll update stream until ctx is cancelled. Updates
// fan out to a bounded worker group so different users are handled in
// parallel; same-user ordering is enforced by the session registry, not
// here.
func (h *Handler) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = int(h.pollTimeout / time.Second)

	updates := h.api.GetUpdatesChan(u)

	go func() {
		<-ctx.Done()
		h.api.StopReceivingUpdates()
	}()

	g := new(errgroup.Group)
	g.SetLimit(h.workers)

	h.logger.Info("Bot started", "workers", h.workers)

	for update := range updates {
		msg := update.Message
		if msg == nil || msg.From == nil {
			continue
		}
		g.Go(func() error {
			h.handleMessage(ctx, msg)
			return nil
		})
	}

	err := g.Wait()
	h.logger.Info("Bot stopped")
	return err
}

// handleMessage processes one inbound message. A single user's bad input
// or a failed write must never take the process down, so anything
// unexpected is caught here and answered with a generic failure.
func (h *Handler) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	userID := msg.From.ID

	defer func() {
		if r := recover(); r != nil {
			h.logger.ErrorContext(ctx, "Panic while handling message",
				log.FieldUserID, userID, "panic", r)
			h.reply(chatID, msgFailure, dialog.KeyboardMain)
		}
	}()

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			h.reply(chatID, msgWelcome, dialog.KeyboardMain)
		case "menu":
			h.machine.HandleMessage(ctx, userID, dialog.CmdMainMenu)
			h.reply(chatID, msgChooseAction, dialog.KeyboardMain)
		default:
			h.reply(chatID, msgChooseAction, dialog.KeyboardMain)
		}
		return
	}

	// The dialogue has first claim on the message: an active session
	// consumes everything except the commands it recognizes itself.
	if r, handled := h.machine.HandleMessage(ctx, userID, msg.Text); handled {
		h.reply(chatID, r.Text, r.Keyboard)
		return
	}

	// Direct dispatch for idle users.
	switch dialog.Normalize(msg.Text) {
	case dialog.CmdBalance:
		h.sendBalance(ctx, chatID, userID)
	case dialog.CmdStatistics:
		h.sendStatistics(ctx, chatID, userID)
	case dialog.CmdMainMenu:
		h.reply(chatID, msgChooseAction, dialog.KeyboardMain)
	default:
		h.reply(chatID, msgChooseAction, dialog.KeyboardMain)
	}
}

func (h *Handler) sendBalance(ctx context.Context, chatID, userID int64) {
	balance, err := h.reports.Balance(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to read balance",
			log.FieldUserID, userID, log.FieldError, err)
		h.reply(chatID, msgFailure, dialog.KeyboardMain)
		return
	}
	h.reply(chatID, formatBalance(balance), dialog.KeyboardMain)
}

func (h *Handler) sendStatistics(ctx context.Context, chatID, userID int64) {
	month := core.MonthOf(h.clock())

	report, err := h.reports.MonthlyReport(ctx, userID, month)
	if errors.Is(err, core.ErrNoActivity) {
		h.reply(chatID, msgNoActivity, dialog.KeyboardMain)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to build monthly report",
			log.FieldUserID, userID, log.FieldMonth, month.String(), log.FieldError, err)
		h.reply(chatID, msgFailure, dialog.KeyboardMain)
		return
	}

	h.reply(chatID, formatReport(report), dialog.KeyboardMain)

	png, err := h.charts.Render(report)
	if err != nil {
		// Text statistics already went out; the chart is best effort.
		h.logger.ErrorContext(ctx, "Failed to render chart",
			log.FieldUserID, userID, log.FieldMonth, month.String(), log.FieldError, err)
		return
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "chart.png", Bytes: png})
	if _, err := h.send.Send(photo); err != nil {
		h.logger.ErrorContext(ctx, "Failed to send chart",
			log.FieldUserID, userID, log.FieldError, err)
	}
}

func (h *Handler) reply(chatID int64, text string, kind dialog.KeyboardKind) {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup := markupFor(kind); markup != nil {
		msg.ReplyMarkup = markup
	}
	if _, err := h.send.Send(msg); err != nil {
		h.logger.Error("Failed to send reply", log.FieldError, err)
	}
}

const (
	msgWelcome      = "Hi! I can help you track your budget. Choose an action:"
	msgChooseAction = "Choose an action:"
	msgNoActivity   = "No transactions this month."
	msgFailure      = "Something went wrong. Please try again."
)
