// Package handlers contains Telegram bot command, callback, and message
// handlers. Handlers are thin dispatchers: they parse the update, call into
// the conversation engine or services, and render the resulting reply.
package handlers

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const (
	msgGeneralError = "Something went wrong. Please try again later."
	msgNoProfileYet = "You don't have a profile yet. Create one first with the \"Create profile\" button under /start."
)

// sendText sends a plain text message, logging delivery failures.
func sendText(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64, text string) {
	if text == "" {
		return
	}
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		log.ErrorContext(ctx, "Failed to send message", "error", err, "chat_id", chatID)
	}
}

// commandArgs returns everything after the command itself, trimmed.
// "/log_food banana bread" -> "banana bread".
func commandArgs(text string) string {
	_, args, _ := strings.Cut(text, " ")
	return strings.TrimSpace(args)
}

// messageContext extracts chat and user IDs from a message update. Returns
// false for updates without a message or sender.
func messageContext(update *models.Update) (chatID, userID int64, ok bool) {
	if update.Message == nil || update.Message.From == nil {
		return 0, 0, false
	}
	return update.Message.Chat.ID, update.Message.From.ID, true
}
