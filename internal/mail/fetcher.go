package mail

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// defaultQuery matches unread supplier mail carrying document attachments.
const defaultQuery = "is:unread has:attachment"

// InboundDocument is an attachment saved from a fetched message.
type InboundDocument struct {
	MessageID string `json:"message_id"`
	From      string `json:"from"`
	Subject   string `json:"subject"`
	Filename  string `json:"filename"`
	Path      string `json:"path"`
	Size      int64  `json:"size"`
}

// Fetcher pulls supplier documents out of the authenticated mailbox and
// saves them under SaveDir for the extraction pipeline to pick up.
type Fetcher struct {
	accessToken string
	SaveDir     string
	Query       string
}

// NewFetcher returns a Fetcher saving attachments into saveDir.
func NewFetcher(accessToken, saveDir string) (*Fetcher, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("gmail access token not configured")
	}
	return &Fetcher{accessToken: accessToken, SaveDir: saveDir, Query: defaultQuery}, nil
}

func (f *Fetcher) service(ctx context.Context) (*gmail.Service, error) {
	token := &oauth2.Token{AccessToken: f.accessToken, TokenType: "Bearer"}
	svc, err := gmail.NewService(ctx, option.WithTokenSource(oauth2.StaticTokenSource(token)))
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}
	return svc, nil
}

// FetchDocuments lists messages matching Query, downloads each attachment
// to SaveDir, and returns the saved documents. A failure on one message is
// logged and skipped; the remaining messages are still processed.
func (f *Fetcher) FetchDocuments(ctx context.Context, maxResults int64) ([]InboundDocument, error) {
	svc, err := f.service(ctx)
	if err != nil {
		return nil, err
	}

	if maxResults <= 0 {
		maxResults = 10
	}
	listResp, err := svc.Users.Messages.List("me").Q(f.Query).MaxResults(maxResults).Do()
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	if err := os.MkdirAll(f.SaveDir, 0o755); err != nil {
		return nil, err
	}

	var docs []InboundDocument
	for _, ref := range listResp.Messages {
		msg, err := svc.Users.Messages.Get("me", ref.Id).Format("full").Do()
		if err != nil {
			log.Warn().Err(err).Str("message_id", ref.Id).Msg("fetch message failed, skipping")
			continue
		}

		from, subject := headerValues(msg)
		saved, err := f.saveAttachments(svc, msg, ref.Id, from, subject)
		if err != nil {
			log.Warn().Err(err).Str("message_id", ref.Id).Msg("save attachments failed, skipping")
			continue
		}
		docs = append(docs, saved...)
	}

	log.Info().Int("documents", len(docs)).Int("messages", len(listResp.Messages)).Msg("inbound documents collected")
	return docs, nil
}

func headerValues(msg *gmail.Message) (from, subject string) {
	if msg.Payload == nil {
		return "", ""
	}
	for _, h := range msg.Payload.Headers {
		switch h.Name {
		case "From":
			from = h.Value
		case "Subject":
			subject = h.Value
		}
	}
	return from, subject
}

func (f *Fetcher) saveAttachments(svc *gmail.Service, msg *gmail.Message, msgID, from, subject string) ([]InboundDocument, error) {
	var docs []InboundDocument
	var walk func(parts []*gmail.MessagePart) error
	walk = func(parts []*gmail.MessagePart) error {
		for _, part := range parts {
			if part.Filename != "" && part.Body != nil && part.Body.AttachmentId != "" {
				att, err := svc.Users.Messages.Attachments.Get("me", msgID, part.Body.AttachmentId).Do()
				if err != nil {
					return fmt.Errorf("get attachment %s: %w", part.Filename, err)
				}
				data, err := base64.URLEncoding.DecodeString(att.Data)
				if err != nil {
					return fmt.Errorf("decode attachment %s: %w", part.Filename, err)
				}
				path := filepath.Join(f.SaveDir, safeFilename(msgID, part.Filename))
				if err := os.WriteFile(path, data, 0o644); err != nil {
					return err
				}
				docs = append(docs, InboundDocument{
					MessageID: msgID,
					From:      from,
					Subject:   subject,
					Filename:  part.Filename,
					Path:      path,
					Size:      int64(len(data)),
				})
			}
			if len(part.Parts) > 0 {
				if err := walk(part.Parts); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if msg.Payload != nil {
		if err := walk(msg.Payload.Parts); err != nil {
			return nil, err
		}
	}
	return docs, nil
}

// safeFilename prefixes the message ID to avoid collisions across messages
// and strips path separators out of the supplier-provided name.
func safeFilename(msgID, name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, string(os.PathSeparator), "_")
	return msgID + "_" + name
}
