package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	// Must be longer than the long-poll timeout passed to GetUpdates.
	httpTimeout = 35 * time.Second

	longPollTimeout = 30
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

type apiResponse struct {
	Ok          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
	ErrorCode   int             `json:"error_code"`
}

func NewClient(baseURL, token string, logger *zap.SugaredLogger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: httpTimeout,
		},
		logger: logger,
	}
}

// CallMethod executes one Bot API method and returns the raw result payload.
func (c *Client) CallMethod(ctx context.Context, method string, params any) (json.RawMessage, error) {
	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)

	var reqBody []byte
	var err error
	if params != nil {
		reqBody, err = json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal params: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Errorw("telegram api error",
			"method", method,
			"status_code", resp.StatusCode,
			"response", string(respBody))
		return nil, fmt.Errorf("telegram api returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var apiResp apiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if !apiResp.Ok {
		return nil, fmt.Errorf("telegram api error [%d]: %s", apiResp.ErrorCode, apiResp.Description)
	}

	return apiResp.Result, nil
}

type sendMessageParams struct {
	ChatID                int64                 `json:"chat_id"`
	Text                  string                `json:"text"`
	DisableWebPagePreview bool                  `json:"disable_web_page_preview,omitempty"`
	ReplyMarkup           *InlineKeyboardMarkup `json:"reply_markup,omitempty"`
}

func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, markup *InlineKeyboardMarkup) (*Message, error) {
	result, err := c.CallMethod(ctx, "sendMessage", sendMessageParams{
		ChatID:                chatID,
		Text:                  text,
		DisableWebPagePreview: true,
		ReplyMarkup:           markup,
	})
	if err != nil {
		return nil, err
	}

	var msg Message
	if err := json.Unmarshal(result, &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sent message: %w", err)
	}
	return &msg, nil
}

type editMessageTextParams struct {
	ChatID                int64                 `json:"chat_id"`
	MessageID             int                   `json:"message_id"`
	Text                  string                `json:"text"`
	DisableWebPagePreview bool                  `json:"disable_web_page_preview,omitempty"`
	ReplyMarkup           *InlineKeyboardMarkup `json:"reply_markup,omitempty"`
}

func (c *Client) EditMessageText(ctx context.Context, chatID int64, messageID int, text string, markup *InlineKeyboardMarkup) error {
	_, err := c.CallMethod(ctx, "editMessageText", editMessageTextParams{
		ChatID:                chatID,
		MessageID:             messageID,
		Text:                  text,
		DisableWebPagePreview: true,
		ReplyMarkup:           markup,
	})
	return err
}

type answerCallbackQueryParams struct {
	CallbackQueryID string `json:"callback_query_id"`
	Text            string `json:"text,omitempty"`
	ShowAlert       bool   `json:"show_alert,omitempty"`
}

func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackQueryID, text string, showAlert bool) error {
	_, err := c.CallMethod(ctx, "answerCallbackQuery", answerCallbackQueryParams{
		CallbackQueryID: callbackQueryID,
		Text:            text,
		ShowAlert:       showAlert,
	})
	return err
}

// InlineAnswer carries the optional knobs of answerInlineQuery.
type InlineAnswer struct {
	IsPersonal        bool
	CacheTime         int
	SwitchPMText      string
	SwitchPMParameter string
}

type answerInlineQueryParams struct {
	InlineQueryID     string                     `json:"inline_query_id"`
	Results           []InlineQueryResultArticle `json:"results"`
	CacheTime         int                        `json:"cache_time"`
	IsPersonal        bool                       `json:"is_personal,omitempty"`
	SwitchPMText      string                     `json:"switch_pm_text,omitempty"`
	SwitchPMParameter string                     `json:"switch_pm_parameter,omitempty"`
}

func (c *Client) AnswerInlineQuery(ctx context.Context, inlineQueryID string, results []InlineQueryResultArticle, answer InlineAnswer) error {
	if results == nil {
		results = []InlineQueryResultArticle{}
	}
	_, err := c.CallMethod(ctx, "answerInlineQuery", answerInlineQueryParams{
		InlineQueryID:     inlineQueryID,
		Results:           results,
		CacheTime:         answer.CacheTime,
		IsPersonal:        answer.IsPersonal,
		SwitchPMText:      answer.SwitchPMText,
		SwitchPMParameter: answer.SwitchPMParameter,
	})
	return err
}

type getUpdatesParams struct {
	Offset  int `json:"offset,omitempty"`
	Timeout int `json:"timeout"`
}

// GetUpdates long-polls the Bot API for new updates starting at offset.
func (c *Client) GetUpdates(ctx context.Context, offset int) ([]Update, error) {
	result, err := c.CallMethod(ctx, "getUpdates", getUpdatesParams{
		Offset:  offset,
		Timeout: longPollTimeout,
	})
	if err != nil {
		return nil, err
	}

	var updates []Update
	if err := json.Unmarshal(result, &updates); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updates: %w", err)
	}
	return updates, nil
}
