package chat

import (
	"context"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/eldtechnologies/maven/internal/models"
)

// Intake accepts a validated question for dispatch to the expert panel.
// Implemented by *relay.Relay.
type Intake interface {
	Submit(ctx context.Context, text, title, requester string, origin models.Origin) (string, error)
}

// Telegram listens for user questions and delivers answers back to
// conversations. It also satisfies relay.Sender.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	intake Intake
	logger zerolog.Logger

	mu    sync.Mutex
	convs map[int64]*Conversation
}

// NewTelegram connects to the Bot API with the given token.
func NewTelegram(token string, intake Intake, logger zerolog.Logger) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	logger.Info().Str("username", bot.Self.UserName).Msg("connected to Telegram")

	return &Telegram{
		bot:    bot,
		intake: intake,
		logger: logger,
		convs:  make(map[int64]*Conversation),
	}, nil
}

// Send delivers text to a conversation.
func (t *Telegram) Send(chatID int64, text string) error {
	_, err := t.bot.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// Run consumes updates until ctx is cancelled.
func (t *Telegram) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := t.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			t.bot.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			t.handleMessage(ctx, update.Message)
		}
	}
}

func (t *Telegram) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	conv := t.conversation(msg.Chat.ID)
	prompt, sub := conv.Advance(msg.Text)

	if sub != nil {
		prompt = t.submit(ctx, msg, sub)
	}

	if prompt == "" {
		return
	}
	if err := t.Send(msg.Chat.ID, prompt); err != nil {
		t.logger.Error().Err(err).Int64("chat_id", msg.Chat.ID).Msg("chat send failed")
	}
}

// submit hands a completed conversation to the intake and returns the
// acknowledgement to show, success or failure.
func (t *Telegram) submit(ctx context.Context, msg *tgbotapi.Message, sub *Submission) string {
	requester := displayName(msg.From)

	id, err := t.intake.Submit(ctx, sub.Text, sub.Title, requester, models.ChatOrigin(msg.Chat.ID))
	if err != nil {
		t.logger.Error().Err(err).Int64("chat_id", msg.Chat.ID).Msg("submission failed")
		t.conversation(msg.Chat.ID).reset()
		return MsgFailed
	}

	t.logger.Info().Str("question_id", id).Int64("chat_id", msg.Chat.ID).Msg("question accepted")
	return MsgAccepted
}

func (t *Telegram) conversation(chatID int64) *Conversation {
	t.mu.Lock()
	defer t.mu.Unlock()
	conv, ok := t.convs[chatID]
	if !ok {
		conv = &Conversation{}
		t.convs[chatID] = conv
	}
	return conv
}

func displayName(user *tgbotapi.User) string {
	if user == nil {
		return ""
	}
	return strings.TrimSpace(user.FirstName + " " + user.LastName)
}
