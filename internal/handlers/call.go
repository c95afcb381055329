package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/psewdon1m/hermes/internal/callapi"
	"github.com/psewdon1m/hermes/internal/metrics"
)

// createCallInvocation is the per-invocation input of the call workflow.
// EditMessageID is set for button presses, where the result replaces the
// pressed message; for commands the bot sends and then edits its own
// status message.
type createCallInvocation struct {
	ChatID        int64
	InitiatorID   int64
	EditMessageID int
}

// createCall runs the orchestration sequence: show progress, ask the call
// api for a new call, render the outcome in place. Each invocation creates
// an independent call; there is no dedup and no memory of prior calls, so
// repeated presses are always safe.
func (b *Bot) createCall(ctx context.Context, log *zap.SugaredLogger, inv createCallInvocation) error {
	if inv.InitiatorID == 0 {
		return fmt.Errorf("create call invocation without initiator id")
	}

	messageID := inv.EditMessageID
	if messageID == 0 {
		sent, err := b.tg.SendMessage(ctx, inv.ChatID, textCreating, nil)
		if err != nil {
			return fmt.Errorf("failed to send status message: %w", err)
		}
		messageID = sent.MessageID
	} else {
		if err := b.tg.EditMessageText(ctx, inv.ChatID, messageID, textCreating, nil); err != nil {
			return fmt.Errorf("failed to show status: %w", err)
		}
	}

	call, err := b.calls.CreateCall(ctx, strconv.FormatInt(inv.InitiatorID, 10))
	if err != nil {
		// The user gets one uniform message regardless of the failure
		// kind; the detail stays in the log for operators.
		kind, status := failureDetail(err)
		metrics.CallFailures.WithLabelValues(string(kind)).Inc()
		log.Errorw("failed to create call",
			"user_id", inv.InitiatorID,
			"kind", string(kind),
			"status", status,
			"error", err)
		return b.tg.EditMessageText(ctx, inv.ChatID, messageID, textCallFailed, retryKeyboard())
	}

	metrics.CallsCreated.Inc()
	log.Infow("call created",
		"user_id", inv.InitiatorID,
		"call_id", call.CallID)

	return b.tg.EditMessageText(ctx, inv.ChatID, messageID,
		fmt.Sprintf(textCallCreated, call.JoinURL),
		callCreatedKeyboard(call.JoinURL))
}

func failureDetail(err error) (callapi.Kind, int) {
	var apiErr *callapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind, apiErr.Status
	}
	return callapi.KindUnexpected, 0
}
