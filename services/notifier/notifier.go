package notifier

import (
	"context"
	"regexp"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"lotwatch/torgiwatch/internal/model"
	"lotwatch/torgiwatch/logger"
	"lotwatch/torgiwatch/pkg/errors"
)

// Notifier delivers lot events to the operator. Both methods report whether
// the message was delivered; failures are logged, never returned.
type Notifier interface {
	NotifyNewLot(ctx context.Context, lot model.Lot) bool
	NotifyStatusChange(ctx context.Context, lot model.Lot, oldStatus string) bool
}

var tokenRe = regexp.MustCompile(`^\d+:[\w-]{35}$`)

// ValidToken reports whether token looks like a Telegram bot token
func ValidToken(token string) bool {
	return tokenRe.MatchString(token)
}

// TelegramNotifier sends HTML messages to one chat through the Bot API
type TelegramNotifier struct {
	bot     *telego.Bot
	chatID  int64
	timeout time.Duration
	log     *logger.Logger
}

// NewTelegramNotifier creates a notifier for chatID. Extra bot options such as
// telego.WithAPIServer are passed through.
func NewTelegramNotifier(token string, chatID int64, timeout time.Duration, opts ...telego.BotOption) (*TelegramNotifier, error) {
	bot, err := telego.NewBot(token, append([]telego.BotOption{telego.WithDiscardLogger()}, opts...)...)
	if err != nil {
		return nil, errors.NewConfiguration("invalid telegram bot token", err)
	}

	return &TelegramNotifier{
		bot:     bot,
		chatID:  chatID,
		timeout: timeout,
		log:     logger.ForNotifier(),
	}, nil
}

// NotifyNewLot sends the new lot message
func (n *TelegramNotifier) NotifyNewLot(ctx context.Context, lot model.Lot) bool {
	return n.send(ctx, lot.LotNumber, FormatNewLot(lot))
}

// NotifyStatusChange sends the status change message
func (n *TelegramNotifier) NotifyStatusChange(ctx context.Context, lot model.Lot, oldStatus string) bool {
	return n.send(ctx, lot.LotNumber, FormatStatusChange(lot, oldStatus))
}

func (n *TelegramNotifier) send(ctx context.Context, lotNumber, text string) bool {
	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	msg := tu.Message(tu.ID(n.chatID), text).WithParseMode(telego.ModeHTML)

	if _, err := n.bot.SendMessage(ctx, msg); err != nil {
		n.log.Error().
			Err(errors.NewNotify("telegram", "send message failed", err)).
			Str("lot_number", lotNumber).
			Msg("Notification not delivered")
		return false
	}

	n.log.Debug().Str("lot_number", lotNumber).Msg("Notification sent")
	return true
}

// LogNotifier writes the rendered messages to the log. It stands in for
// Telegram when no bot token is configured.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier creates a log-only notifier
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{log: logger.ForNotifier()}
}

// NotifyNewLot logs the new lot message
func (n *LogNotifier) NotifyNewLot(ctx context.Context, lot model.Lot) bool {
	n.log.Info().Str("lot_number", lot.LotNumber).Str("message", FormatNewLot(lot)).Msg("New lot")
	return true
}

// NotifyStatusChange logs the status change message
func (n *LogNotifier) NotifyStatusChange(ctx context.Context, lot model.Lot, oldStatus string) bool {
	n.log.Info().Str("lot_number", lot.LotNumber).Str("message", FormatStatusChange(lot, oldStatus)).Msg("Status change")
	return true
}
