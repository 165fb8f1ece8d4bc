package notify

import (
	"context"
	"fmt"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"stickershop/internal/domain"
	"stickershop/internal/logging"
)

// FileReader reads stored artwork back by path.
type FileReader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// Config selects the sender identity and the operator mailbox.
type Config struct {
	From          string
	Recipient     string
	SubjectPrefix string
	// Enabled is false when relay credentials are missing; Notify then skips delivery.
	Enabled bool
}

// EmailNotifier turns orders into operator emails with the artwork attached.
type EmailNotifier struct {
	cfg    Config
	sender Sender
	files  FileReader
	logger *zap.Logger
}

// NewEmailNotifier wires the renderer to a Sender and the artwork store.
func NewEmailNotifier(cfg Config, sender Sender, files FileReader, logger *zap.Logger) *EmailNotifier {
	return &EmailNotifier{cfg: cfg, sender: sender, files: files, logger: logging.OrNop(logger)}
}

// Notify renders and sends one message for the order. When the relay is not
// configured it returns an error wrapping domain.ErrNotConfigured without
// attempting delivery.
func (n *EmailNotifier) Notify(ctx context.Context, o domain.Order) (string, error) {
	if !n.cfg.Enabled || n.sender == nil {
		return "", fmt.Errorf("email transporter not available, SMTP is not configured: %w", domain.ErrNotConfigured)
	}

	msg, err := n.Compose(ctx, o)
	if err != nil {
		return "", err
	}

	id, err := n.sender.Send(ctx, msg)
	if err != nil {
		return "", err
	}
	n.logger.Info("order email sent", zap.String("order_id", o.OrderID), zap.String("message_id", id))
	return id, nil
}

// Compose builds the message without sending it.
func (n *EmailNotifier) Compose(ctx context.Context, o domain.Order) (Message, error) {
	text, err := RenderText(o)
	if err != nil {
		return Message{}, err
	}
	html, err := RenderHTML(o)
	if err != nil {
		return Message{}, err
	}

	msg := Message{
		From:    n.cfg.From,
		To:      n.cfg.Recipient,
		Subject: Subject(n.cfg.SubjectPrefix, o.OrderID),
		Text:    text,
		HTML:    html,
	}
	if att, ok := n.attachment(ctx, o); ok {
		msg.Attachments = append(msg.Attachments, att)
	}
	return msg, nil
}

func (n *EmailNotifier) attachment(ctx context.Context, o domain.Order) (Attachment, bool) {
	if o.Artwork.Path == "" || n.files == nil {
		return Attachment{}, false
	}
	data, err := n.files.ReadFile(ctx, o.Artwork.Path)
	if err != nil {
		n.logger.Warn("artwork unreadable, sending without attachment",
			zap.String("order_id", o.OrderID),
			zap.String("path", o.Artwork.Path),
			zap.Error(err))
		return Attachment{}, false
	}
	return Attachment{
		Name:        o.Artwork.FileName,
		ContentType: mimetype.Detect(data).String(),
		Data:        data,
	}, true
}
