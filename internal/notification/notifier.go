// Package notification announces processed work orders in a Lark chat.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/garyjia/os-extractor/internal/models"
	"go.uber.org/zap"
)

// TextSender sends a plain text message to a chat. *lark.MessageAPI implements it.
type TextSender interface {
	SendText(ctx context.Context, chatID, text string) (string, error)
}

// ExtractionNotifier posts a summary of each extraction to one chat
type ExtractionNotifier struct {
	sender  TextSender
	chatID  string
	timeout time.Duration
	logger  *zap.Logger
}

// NewExtractionNotifier creates a new notifier. A zero timeout leaves ctx untouched.
func NewExtractionNotifier(sender TextSender, chatID string, timeout time.Duration, logger *zap.Logger) *ExtractionNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExtractionNotifier{
		sender:  sender,
		chatID:  chatID,
		timeout: timeout,
		logger:  logger,
	}
}

// NotifyExtraction sends the summary of rec to the configured chat
func (n *ExtractionNotifier) NotifyExtraction(ctx context.Context, rec *models.ExtractionRecord) error {
	if n.chatID == "" {
		return fmt.Errorf("notification chat id is not configured")
	}

	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	messageID, err := n.sender.SendText(ctx, n.chatID, Summary(rec))
	if err != nil {
		return fmt.Errorf("failed to notify extraction: %w", err)
	}

	n.logger.Info("Extraction notification sent",
		zap.String("extraction_id", rec.ID),
		zap.String("message_id", messageID))
	return nil
}
