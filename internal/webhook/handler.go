package webhook

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/psewdon1m/hermes/internal/metrics"
	"github.com/psewdon1m/hermes/internal/telegram"
)

const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

type Dedup interface {
	MarkProcessed(ctx context.Context, updateID int) (bool, error)
}

type DispatchFunc func(ctx context.Context, upd telegram.Update)

type Handler struct {
	secret   string
	dedup    Dedup
	dispatch DispatchFunc
	logger   *zap.SugaredLogger
}

func NewHandler(secret string, dedup Dedup, dispatch DispatchFunc, logger *zap.SugaredLogger) *Handler {
	return &Handler{
		secret:   secret,
		dedup:    dedup,
		dispatch: dispatch,
		logger:   logger,
	}
}

// HandleWebhook processes one update delivered by Telegram.
// POST /webhook
//
// The response is sent before the update is handled: Telegram retries
// deliveries it considers failed, and handler latency (the call api takes
// up to 5s) must not look like a failed delivery.
func (h *Handler) HandleWebhook(c *fiber.Ctx) error {
	if h.secret != "" && c.Get(secretTokenHeader) != h.secret {
		h.logger.Warnw("webhook request with bad secret token", "ip", c.IP())
		return c.Status(fiber.StatusUnauthorized).SendString("unauthorized")
	}

	var upd telegram.Update
	if err := c.BodyParser(&upd); err != nil {
		h.logger.Errorw("failed to unmarshal update", "error", err)
		return c.Status(fiber.StatusBadRequest).SendString("invalid json")
	}

	first, err := h.dedup.MarkProcessed(c.UserContext(), upd.UpdateID)
	if err != nil {
		h.logger.Errorw("failed to mark update processed",
			"update_id", upd.UpdateID,
			"error", err)
	} else if !first {
		metrics.UpdatesDuplicate.Inc()
		h.logger.Debugw("skipping redelivered update", "update_id", upd.UpdateID)
		return c.SendString("ok")
	}

	go h.dispatch(context.Background(), upd)

	return c.SendString("ok")
}
