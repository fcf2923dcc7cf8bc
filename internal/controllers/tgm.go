package controllers

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// TgmController pushes pipeline events (fills, rejections, aborted
// cycles) to the operator chat.
type TgmController struct {
	tgmBot *tgbotapi.BotAPI
	chatID int64
	silent bool
}

func NewTgmController(tgmBot *tgbotapi.BotAPI, chatID int64, silent bool) *TgmController {
	return &TgmController{
		tgmBot: tgmBot,
		chatID: chatID,
		silent: silent,
	}
}

func (c *TgmController) Send(text string) error {
	msg := tgbotapi.NewMessage(c.chatID, text)
	msg.DisableNotification = c.silent

	if _, err := c.tgmBot.Send(msg); err != nil {
		return err
	}

	return nil
}

func (c *TgmController) Update(msgID int, text string) error {
	msg := tgbotapi.NewEditMessageText(c.chatID, msgID, text)

	if _, err := c.tgmBot.Send(msg); err != nil {
		return err
	}

	return nil
}
