package handlers

import (
	"github.com/psewdon1m/hermes/internal/callback"
	"github.com/psewdon1m/hermes/internal/telegram"
)

const (
	textWelcome = "🎥 Welcome to the video call bot!\n\n" +
		"Use /createCall to create a new call. " +
		"You will get a link to share with the other participant."

	textHelp = "🤖 I create peer-to-peer video calls.\n\n" +
		"Commands:\n" +
		"• /start — what this bot does\n" +
		"• /createCall — create a new call\n\n" +
		"Or use the button below."

	textCreating = "🔄 Creating your call..."

	textCallCreated = "✅ Call created!\n\n" +
		"🔗 Join link:\n%s\n\n" +
		"Share this link with the other participant. " +
		"The room expires after 60 minutes of inactivity."

	// One message for every failure kind. What actually went wrong is
	// logged, never shown.
	textCallFailed = "❌ Could not create the call.\n\n" +
		"Please try again in a few seconds."

	textCopyLink        = "Copy the link:\n"
	textLinkUnavailable = "Link unavailable. Create a new call instead."
	textTryAgainLater   = "⚠️ Something went wrong. Please try again later."

	textInlineTitle       = "Send call link"
	textInlineDescription = "The recipient will get a link to join the call"
	textInlineMessage     = "📞 Join my call: %s"
	textInlineJoinButton  = "Join the call"
	textInlinePrompt      = "Create a call"
)

func createCallKeyboard() *telegram.InlineKeyboardMarkup {
	return &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{
				{Text: "📞 Create call", CallbackData: callback.Encode(callback.ActionCreateCall, "")},
			},
		},
	}
}

func retryKeyboard() *telegram.InlineKeyboardMarkup {
	return &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{
				{Text: "🔄 Try again", CallbackData: callback.Encode(callback.ActionCreateCall, "")},
			},
		},
	}
}

func callCreatedKeyboard(joinURL string) *telegram.InlineKeyboardMarkup {
	return &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{
				{Text: "🔗 Join call", URL: joinURL},
			},
			{
				{Text: "📤 Share link", SwitchInlineQuery: joinURL},
				{Text: "📋 Copy link", CallbackData: callback.Encode(callback.ActionCopyLink, joinURL)},
			},
			{
				{Text: "🔄 New call", CallbackData: callback.Encode(callback.ActionNewCall, "")},
			},
		},
	}
}
