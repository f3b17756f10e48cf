// Package mail sends purchase orders to suppliers and collects inbound
// supplier documents over the Gmail API. Authentication uses a short-lived
// OAuth2 access token supplied by the caller; no refresh flow is performed
// here.
package mail

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// OutboundMessage describes one email to send.
type OutboundMessage struct {
	To             string
	Subject        string
	Body           string
	AttachmentPath string
	Urgent         bool
}

// Sender delivers messages through the authenticated user's Gmail account.
type Sender struct {
	accessToken string
	senderName  string
}

// NewSender returns a Sender using the given OAuth2 access token.
func NewSender(accessToken, senderName string) (*Sender, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("gmail access token not configured")
	}
	return &Sender{accessToken: accessToken, senderName: senderName}, nil
}

func (s *Sender) service(ctx context.Context) (*gmail.Service, error) {
	token := &oauth2.Token{AccessToken: s.accessToken, TokenType: "Bearer"}
	svc, err := gmail.NewService(ctx, option.WithTokenSource(oauth2.StaticTokenSource(token)))
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}
	return svc, nil
}

// Send builds an RFC 822 message (multipart when an attachment is present)
// and submits it via Users.Messages.Send. It returns the Gmail message ID.
func (s *Sender) Send(ctx context.Context, msg OutboundMessage) (string, error) {
	if msg.To == "" {
		return "", fmt.Errorf("recipient address is required")
	}

	svc, err := s.service(ctx)
	if err != nil {
		return "", err
	}

	raw, err := s.buildRaw(msg)
	if err != nil {
		return "", err
	}

	sent, err := svc.Users.Messages.Send("me", &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString(raw),
	}).Do()
	if err != nil {
		return "", fmt.Errorf("send message: %w", err)
	}

	log.Info().
		Str("to", msg.To).
		Str("message_id", sent.Id).
		Bool("urgent", msg.Urgent).
		Msg("purchase order email sent")

	return sent.Id, nil
}

func (s *Sender) buildRaw(msg OutboundMessage) ([]byte, error) {
	var sb strings.Builder

	from := "me"
	if s.senderName != "" {
		from = fmt.Sprintf("%s <me>", s.senderName)
	}
	fmt.Fprintf(&sb, "From: %s\r\n", from)
	fmt.Fprintf(&sb, "To: %s\r\n", msg.To)
	fmt.Fprintf(&sb, "Subject: %s\r\n", msg.Subject)
	if msg.Urgent {
		sb.WriteString("X-Priority: 1\r\n")
		sb.WriteString("Importance: high\r\n")
	}
	sb.WriteString("MIME-Version: 1.0\r\n")

	if msg.AttachmentPath == "" {
		sb.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
		sb.WriteString(msg.Body)
		return []byte(sb.String()), nil
	}

	data, err := os.ReadFile(msg.AttachmentPath)
	if err != nil {
		return nil, fmt.Errorf("read attachment: %w", err)
	}
	filename := filepath.Base(msg.AttachmentPath)
	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	const boundary = "po-mail-boundary"
	fmt.Fprintf(&sb, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", boundary)

	fmt.Fprintf(&sb, "--%s\r\n", boundary)
	sb.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	sb.WriteString(msg.Body)
	sb.WriteString("\r\n")

	fmt.Fprintf(&sb, "--%s\r\n", boundary)
	fmt.Fprintf(&sb, "Content-Type: %s; name=%q\r\n", contentType, filename)
	fmt.Fprintf(&sb, "Content-Disposition: attachment; filename=%q\r\n", filename)
	sb.WriteString("Content-Transfer-Encoding: base64\r\n\r\n")

	encoded := base64.StdEncoding.EncodeToString(data)
	for len(encoded) > 76 {
		sb.WriteString(encoded[:76])
		sb.WriteString("\r\n")
		encoded = encoded[76:]
	}
	sb.WriteString(encoded)
	sb.WriteString("\r\n")
	fmt.Fprintf(&sb, "--%s--\r\n", boundary)

	return []byte(sb.String()), nil
}
