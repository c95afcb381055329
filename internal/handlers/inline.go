package handlers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/psewdon1m/hermes/internal/callback"
	"github.com/psewdon1m/hermes/internal/telegram"
)

// handleInlineQuery lets a user forward an existing join link into another
// chat. The query text is user input, so it only becomes a result if it
// validates as a link this bot could have issued; the workflow never
// creates calls itself.
func (b *Bot) handleInlineQuery(ctx context.Context, log *zap.SugaredLogger, q *telegram.InlineQuery) error {
	query := strings.TrimSpace(q.Query)

	if !callback.IsJoinLink(query) {
		return b.tg.AnswerInlineQuery(ctx, q.ID, nil, telegram.InlineAnswer{
			IsPersonal:        true,
			SwitchPMText:      textInlinePrompt,
			SwitchPMParameter: "create_call",
		})
	}

	log.Infow("sharing join link inline", "user_id", userIDOf(q.From))

	// Deterministic result id keeps Telegram-side caching stable for the
	// same link.
	sum := sha256.Sum256([]byte(query))

	result := telegram.InlineQueryResultArticle{
		Type:        "article",
		ID:          hex.EncodeToString(sum[:]),
		Title:       textInlineTitle,
		Description: textInlineDescription,
		InputMessageContent: telegram.InputTextMessageContent{
			MessageText:           fmt.Sprintf(textInlineMessage, query),
			DisableWebPagePreview: true,
		},
		ReplyMarkup: &telegram.InlineKeyboardMarkup{
			InlineKeyboard: [][]telegram.InlineKeyboardButton{
				{
					{Text: textInlineJoinButton, URL: query},
				},
			},
		},
	}

	return b.tg.AnswerInlineQuery(ctx, q.ID, []telegram.InlineQueryResultArticle{result}, telegram.InlineAnswer{
		IsPersonal: true,
	})
}
