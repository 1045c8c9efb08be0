package action

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/claimwise/automation/logger"
	"github.com/claimwise/automation/model"
	"github.com/claimwise/automation/persistence"
	"github.com/claimwise/automation/provider"
	"go.uber.org/zap"
)

type sendEmailConfig struct {
	RecipientType     string   `mapstructure:"recipient_type"`
	Subject           string   `mapstructure:"subject"`
	Body              string   `mapstructure:"body"`
	AttachmentFolders []string `mapstructure:"attachment_folders"`
	AttachmentMatch   []string `mapstructure:"attachment_match"`
}

type sendEmailHandler struct {
	email    provider.EmailSender
	files    persistence.FileDao
	activity persistence.ActivityDao
	from     string
}

var _ Handler = new(sendEmailHandler)

func NewSendEmailHandler(email provider.EmailSender, files persistence.FileDao, activity persistence.ActivityDao, from string) *sendEmailHandler {
	return &sendEmailHandler{
		email:    email,
		files:    files,
		activity: activity,
		from:     from,
	}
}

func (h *sendEmailHandler) Type() model.ActionType {
	return model.ACTION_TYPE_SEND_EMAIL
}

func (h *sendEmailHandler) Execute(ctx context.Context, config map[string]any, ec *ExecutionContext) (map[string]any, error) {
	cfg, err := decodeConfig[sendEmailConfig](config)
	if err != nil {
		return nil, err
	}
	to, err := resolveRecipient(ec, cfg.RecipientType, "email")
	if err != nil {
		return nil, err
	}
	subject := ec.Render(cfg.Subject)
	body := ec.Render(cfg.Body)
	attachments := h.collectAttachments(ctx, ec, cfg)

	result, err := h.email.Send(ctx, h.from, to, subject, body, attachments)
	if err != nil {
		return nil, ProviderError{Provider: "email", Message: err.Error()}
	}

	if ec.Claim != nil {
		entry := model.ActivityEntry{
			ClaimId:   ec.Claim.Id,
			Message:   fmt.Sprintf("email %q sent to %s", subject, to),
			Type:      "email_sent",
			CreatedAt: time.Now(),
		}
		if err := h.activity.Append(ctx, entry); err != nil {
			logger.Error("error logging sent email", zap.String("claimId", ec.Claim.Id), zap.Error(err))
		}
	}
	return map[string]any{"email_id": result.Id, "to": to, "attachments": len(attachments)}, nil
}

// collectAttachments fetches and encodes matching stored files. A file
// that fails to download is logged and skipped; it never fails the send.
func (h *sendEmailHandler) collectAttachments(ctx context.Context, ec *ExecutionContext, cfg *sendEmailConfig) []provider.Attachment {
	if len(cfg.AttachmentFolders) == 0 || ec.Claim == nil {
		return nil
	}
	files, err := h.files.ListByFolderNames(ctx, ec.Claim.Id, cfg.AttachmentFolders)
	if err != nil {
		logger.Error("error listing attachments", zap.String("claimId", ec.Claim.Id), zap.Error(err))
		return nil
	}
	attachments := make([]provider.Attachment, 0, len(files))
	for _, file := range files {
		if !matchesAny(file.Name, cfg.AttachmentMatch) {
			continue
		}
		content, err := h.files.Download(ctx, file.Path)
		if err != nil {
			logger.Error("error downloading attachment, skipping",
				zap.String("claimId", ec.Claim.Id), zap.String("file", file.Name), zap.Error(err))
			continue
		}
		attachments = append(attachments, provider.Attachment{
			Filename: file.Name,
			Content:  base64.StdEncoding.EncodeToString(content),
		})
	}
	return attachments
}

func matchesAny(name string, substrings []string) bool {
	if len(substrings) == 0 {
		return true
	}
	for _, s := range substrings {
		if strings.Contains(strings.ToLower(name), strings.ToLower(s)) {
			return true
		}
	}
	return false
}
