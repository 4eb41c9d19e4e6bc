package services

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// TelegramChannel is the NotificationChannel backed by the Telegram Bot API.
type TelegramChannel struct {
	bot *tgbotapi.BotAPI
	log *zap.Logger
}

func NewTelegramChannel(botToken string, log *zap.Logger) (*TelegramChannel, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	log.Info("telegram.channel_ready", zap.String("bot", bot.Self.UserName))
	return &TelegramChannel{bot: bot, log: log}, nil
}

func (t *TelegramChannel) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram sendMessage: %w", err)
	}
	return nil
}
