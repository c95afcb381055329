// Package handlers maps inbound Telegram updates to call-creation
// workflows. A handler invocation is self-contained: everything it needs
// is carried by the triggering update, and nothing survives its return.
package handlers

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/psewdon1m/hermes/internal/callapi"
	"github.com/psewdon1m/hermes/internal/callback"
	"github.com/psewdon1m/hermes/internal/metrics"
	"github.com/psewdon1m/hermes/internal/telegram"
)

type Bot struct {
	tg     *telegram.Client
	calls  *callapi.Client
	logger *zap.SugaredLogger
}

func New(tg *telegram.Client, calls *callapi.Client, logger *zap.SugaredLogger) *Bot {
	return &Bot{
		tg:     tg,
		calls:  calls,
		logger: logger,
	}
}

// HandleUpdate routes one update to its handler. It is the dispatch
// boundary: no error and no panic escapes it, so one bad update can never
// stop the loop. Safe for concurrent use; invocations share no state.
func (b *Bot) HandleUpdate(ctx context.Context, upd telegram.Update) {
	log := b.logger.With(
		"trace_id", uuid.NewString(),
		"update_id", upd.UpdateID)

	chatID := chatIDOf(upd)

	defer func() {
		if r := recover(); r != nil {
			metrics.DispatchPanics.Inc()
			log.Errorw("panic while handling update", "panic", r)
			b.notifyFailure(ctx, chatID)
		}
	}()

	var err error
	switch {
	case upd.Message != nil:
		metrics.UpdatesReceived.WithLabelValues("message").Inc()
		err = b.handleMessage(ctx, log, upd.Message)
	case upd.Callback != nil:
		metrics.UpdatesReceived.WithLabelValues("callback_query").Inc()
		err = b.handleCallback(ctx, log, upd.Callback)
	case upd.InlineQuery != nil:
		metrics.UpdatesReceived.WithLabelValues("inline_query").Inc()
		err = b.handleInlineQuery(ctx, log, upd.InlineQuery)
	default:
		metrics.UpdatesReceived.WithLabelValues("other").Inc()
		log.Debugw("ignoring update without message, callback or inline query")
		return
	}

	if err != nil {
		log.Errorw("failed to handle update", "error", err)
		b.notifyFailure(ctx, chatID)
	}
}

func (b *Bot) handleMessage(ctx context.Context, log *zap.SugaredLogger, msg *telegram.Message) error {
	if msg.Chat == nil || msg.From == nil {
		log.Debugw("ignoring message without chat or sender")
		return nil
	}

	switch command(msg.Text) {
	case "/start":
		log.Infow("user started the bot", "user_id", msg.From.ID)
		_, err := b.tg.SendMessage(ctx, msg.Chat.ID, textWelcome, createCallKeyboard())
		return err
	case "/createCall", "/create":
		return b.createCall(ctx, log, createCallInvocation{
			ChatID:      msg.Chat.ID,
			InitiatorID: msg.From.ID,
		})
	case "/help":
		_, err := b.tg.SendMessage(ctx, msg.Chat.ID, textHelp, createCallKeyboard())
		return err
	default:
		_, err := b.tg.SendMessage(ctx, msg.Chat.ID, textHelp, createCallKeyboard())
		return err
	}
}

func (b *Bot) handleCallback(ctx context.Context, log *zap.SugaredLogger, cb *telegram.CallbackQuery) error {
	tok, err := callback.Decode(cb.Data)
	if err != nil {
		// Stale or replayed button data; never trusted, never fatal.
		log.Warnw("failed to decode callback data",
			"data", cb.Data,
			"user_id", userIDOf(cb.From),
			"error", err)
		return b.tg.AnswerCallbackQuery(ctx, cb.ID, textLinkUnavailable, true)
	}

	switch tok.Action {
	case callback.ActionCreateCall, callback.ActionNewCall:
		// Acknowledge before the network call so the button spinner
		// disappears immediately.
		if err := b.tg.AnswerCallbackQuery(ctx, cb.ID, "", false); err != nil {
			return err
		}
		if cb.Message == nil || cb.Message.Chat == nil {
			log.Debugw("callback without attached message, ignoring")
			return nil
		}
		return b.createCall(ctx, log, createCallInvocation{
			ChatID:        cb.Message.Chat.ID,
			InitiatorID:   userIDOf(cb.From),
			EditMessageID: cb.Message.MessageID,
		})
	case callback.ActionCopyLink:
		return b.tg.AnswerCallbackQuery(ctx, cb.ID, textCopyLink+tok.Payload, true)
	default:
		return b.tg.AnswerCallbackQuery(ctx, cb.ID, textLinkUnavailable, true)
	}
}

// notifyFailure is the last-resort degradation for faults the handlers
// themselves did not turn into UI. Best effort: a send failure here is
// only logged.
func (b *Bot) notifyFailure(ctx context.Context, chatID int64) {
	if chatID == 0 {
		return
	}
	if _, err := b.tg.SendMessage(ctx, chatID, textTryAgainLater, nil); err != nil {
		b.logger.Errorw("failed to send failure notice", "chat_id", chatID, "error", err)
	}
}

// command extracts the leading bot command from a message text, dropping
// the @botname suffix Telegram appends in group chats.
func command(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	cmd := strings.Fields(text)[0]
	if i := strings.IndexByte(cmd, '@'); i >= 0 {
		cmd = cmd[:i]
	}
	return cmd
}

func chatIDOf(upd telegram.Update) int64 {
	switch {
	case upd.Message != nil && upd.Message.Chat != nil:
		return upd.Message.Chat.ID
	case upd.Callback != nil && upd.Callback.Message != nil && upd.Callback.Message.Chat != nil:
		return upd.Callback.Message.Chat.ID
	}
	return 0
}

func userIDOf(u *telegram.User) int64 {
	if u == nil {
		return 0
	}
	return u.ID
}
