package action

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/claimwise/automation/model"
	"github.com/claimwise/automation/provider"
)

type fakeEmailSender struct {
	sent []sentEmail
	err  error
}

type sentEmail struct {
	from        string
	to          string
	subject     string
	html        string
	attachments []provider.Attachment
}

func (f *fakeEmailSender) Send(ctx context.Context, from string, to string, subject string, html string, attachments []provider.Attachment) (*provider.EmailResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, sentEmail{from: from, to: to, subject: subject, html: html, attachments: attachments})
	return &provider.EmailResult{Id: "email-1"}, nil
}

type fakeSMSSender struct {
	sent []string
	err  error
}

func (f *fakeSMSSender) Send(ctx context.Context, to string, from string, body string) (*provider.SMSResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, to+": "+body)
	return &provider.SMSResult{Id: "sms-1", Status: "queued"}, nil
}

type fakeFileDao struct {
	files       []model.StoredFile
	contents    map[string][]byte
	downloadErr map[string]error
}

func (f *fakeFileDao) ListByFolderNames(ctx context.Context, claimId string, folders []string) ([]model.StoredFile, error) {
	wanted := make(map[string]bool)
	for _, folder := range folders {
		wanted[folder] = true
	}
	var out []model.StoredFile
	for _, file := range f.files {
		if file.ClaimId == claimId && wanted[file.Folder] {
			out = append(out, file)
		}
	}
	return out, nil
}

func (f *fakeFileDao) Download(ctx context.Context, path string) ([]byte, error) {
	if err := f.downloadErr[path]; err != nil {
		return nil, err
	}
	return f.contents[path], nil
}

type fakeActivityDao struct {
	entries []model.ActivityEntry
}

func (f *fakeActivityDao) Append(ctx context.Context, entry model.ActivityEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func claimContext(fields map[string]any) *ExecutionContext {
	return &ExecutionContext{
		ExecutionId:  "exec-1",
		AutomationId: "auto-1",
		ClaimId:      "claim-1",
		Claim:        &model.Claim{Id: "claim-1", Fields: fields},
		TriggerData:  map[string]any{"due": "5/1"},
	}
}

func TestSendEmail(t *testing.T) {
	sender := &fakeEmailSender{}
	activity := &fakeActivityDao{}
	files := &fakeFileDao{
		files: []model.StoredFile{
			{Id: "f1", ClaimId: "claim-1", Folder: "reports", Name: "inspection-report.pdf", Path: "p1"},
			{Id: "f2", ClaimId: "claim-1", Folder: "reports", Name: "invoice.pdf", Path: "p2"},
			{Id: "f3", ClaimId: "claim-1", Folder: "photos", Name: "roof.jpg", Path: "p3"},
		},
		contents:    map[string][]byte{"p1": []byte("report-bytes"), "p2": []byte("invoice-bytes")},
		downloadErr: map[string]error{},
	}
	h := NewSendEmailHandler(sender, files, activity, "claims@example.com")

	config := map[string]any{
		"recipient_type":     "policyholder",
		"subject":            "Update for {claim.name}",
		"body":               "Due {trigger.due}",
		"attachment_folders": []any{"reports"},
		"attachment_match":   []any{"report"},
	}
	ec := claimContext(map[string]any{"name": "Acme", "policyholder_email": "owner@acme.com"})

	out, err := h.Execute(context.Background(), config, ec)
	require.NoError(t, err)
	require.Equal(t, "email-1", out["email_id"])

	require.Len(t, sender.sent, 1)
	sent := sender.sent[0]
	require.Equal(t, "owner@acme.com", sent.to)
	require.Equal(t, "Update for Acme", sent.subject)
	require.Equal(t, "Due 5/1", sent.html)
	require.Len(t, sent.attachments, 1)
	require.Equal(t, "inspection-report.pdf", sent.attachments[0].Filename)
	require.Equal(t, base64.StdEncoding.EncodeToString([]byte("report-bytes")), sent.attachments[0].Content)

	require.Len(t, activity.entries, 1)
	require.Equal(t, "email_sent", activity.entries[0].Type)
}

func TestSendEmailSkipsBrokenAttachment(t *testing.T) {
	sender := &fakeEmailSender{}
	files := &fakeFileDao{
		files: []model.StoredFile{
			{Id: "f1", ClaimId: "claim-1", Folder: "reports", Name: "a.pdf", Path: "p1"},
			{Id: "f2", ClaimId: "claim-1", Folder: "reports", Name: "b.pdf", Path: "p2"},
		},
		contents:    map[string][]byte{"p2": []byte("ok")},
		downloadErr: map[string]error{"p1": errors.New("gone")},
	}
	h := NewSendEmailHandler(sender, files, &fakeActivityDao{}, "claims@example.com")

	config := map[string]any{
		"recipient_type":     "adjuster",
		"subject":            "s",
		"body":               "b",
		"attachment_folders": []any{"reports"},
	}
	ec := claimContext(map[string]any{"adjuster_email": "adj@example.com"})

	_, err := h.Execute(context.Background(), config, ec)
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	require.Len(t, sender.sent[0].attachments, 1)
	require.Equal(t, "b.pdf", sender.sent[0].attachments[0].Filename)
}

func TestSendEmailUnresolvedRecipient(t *testing.T) {
	sender := &fakeEmailSender{}
	h := NewSendEmailHandler(sender, &fakeFileDao{}, &fakeActivityDao{}, "claims@example.com")

	for scenario, ec := range map[string]*ExecutionContext{
		"no claim":      {ExecutionId: "exec-1"},
		"missing field": claimContext(map[string]any{"name": "Acme"}),
		"empty field":   claimContext(map[string]any{"policyholder_email": ""}),
	} {
		t.Run(scenario, func(t *testing.T) {
			config := map[string]any{"recipient_type": "policyholder", "subject": "s", "body": "b"}
			_, err := h.Execute(context.Background(), config, ec)
			require.Error(t, err)
			var validationErr ValidationError
			require.ErrorAs(t, err, &validationErr)
			require.Empty(t, sender.sent)
		})
	}
}

func TestSendEmailProviderFailure(t *testing.T) {
	sender := &fakeEmailSender{err: errors.New("rate limited")}
	h := NewSendEmailHandler(sender, &fakeFileDao{}, &fakeActivityDao{}, "claims@example.com")

	config := map[string]any{"recipient_type": "policyholder", "subject": "s", "body": "b"}
	_, err := h.Execute(context.Background(), config, claimContext(map[string]any{"policyholder_email": "x@y.z"}))
	require.Error(t, err)
	var providerErr ProviderError
	require.ErrorAs(t, err, &providerErr)
	require.Equal(t, "email", providerErr.Provider)
}

func TestSendSMS(t *testing.T) {
	sender := &fakeSMSSender{}
	activity := &fakeActivityDao{}
	h := NewSendSMSHandler(sender, activity, "+15550000000")

	config := map[string]any{"recipient_type": "referrer", "message": "Hi {claim.name}"}
	ec := claimContext(map[string]any{"name": "Acme", "referrer_phone": "+15551234567"})

	out, err := h.Execute(context.Background(), config, ec)
	require.NoError(t, err)
	require.Equal(t, "sms-1", out["sms_id"])
	require.Equal(t, []string{"+15551234567: Hi Acme"}, sender.sent)
	require.Len(t, activity.entries, 1)
	require.Equal(t, "sms_sent", activity.entries[0].Type)
}

func TestSendSMSUnresolvedPhone(t *testing.T) {
	h := NewSendSMSHandler(&fakeSMSSender{}, &fakeActivityDao{}, "+15550000000")

	config := map[string]any{"recipient_type": "policyholder", "message": "hi"}
	_, err := h.Execute(context.Background(), config, claimContext(map[string]any{"name": "Acme"}))
	require.Error(t, err)
	var validationErr ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestWebhookHandler(t *testing.T) {
	var received map[string]any
	var method string
	var header string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		header = r.Header.Get("X-Custom")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	h := NewWebhookHandler()
	config := map[string]any{
		"url":     srv.URL,
		"headers": map[string]any{"X-Custom": "yes"},
	}
	ec := claimContext(nil)

	out, err := h.Execute(context.Background(), config, ec)
	require.NoError(t, err)
	require.Equal(t, http.MethodPost, method)
	require.Equal(t, "yes", header)
	require.EqualValues(t, http.StatusOK, out["status_code"])
	require.Equal(t, "exec-1", received["execution_id"])
	require.Equal(t, "claim-1", received["claim_id"])
	require.Equal(t, "auto-1", received["automation_id"])
}

func TestWebhookHandlerNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	h := NewWebhookHandler()
	_, err := h.Execute(context.Background(), map[string]any{"url": srv.URL}, claimContext(nil))
	require.Error(t, err)
	require.Contains(t, err.Error(), "502")
	require.Contains(t, err.Error(), "Bad Gateway")
}

type fakeTaskDao struct {
	tasks []model.Task
}

func (f *fakeTaskDao) Create(ctx context.Context, task model.Task) error {
	f.tasks = append(f.tasks, task)
	return nil
}

func TestCreateTask(t *testing.T) {
	tasks := &fakeTaskDao{}
	h := NewCreateTaskHandler(tasks)

	config := map[string]any{
		"title":         "Call {claim.name}",
		"description":   "Follow up on {trigger.due}",
		"priority":      "high",
		"due_in_days":   3,
		"due_date_type": "business",
	}
	out, err := h.Execute(context.Background(), config, claimContext(map[string]any{"name": "Acme"}))
	require.NoError(t, err)
	require.NotEmpty(t, out["task_id"])
	require.NotEmpty(t, out["due_date"])

	require.Len(t, tasks.tasks, 1)
	task := tasks.tasks[0]
	require.Equal(t, "claim-1", task.ClaimId)
	require.Equal(t, "Call Acme", task.Title)
	require.Equal(t, "Follow up on 5/1", task.Description)
	require.Equal(t, model.TASK_PRIORITY_HIGH, task.Priority)
	require.Equal(t, "pending", task.Status)
	due := task.DueDate.Weekday()
	require.NotEqual(t, time.Saturday, due)
	require.NotEqual(t, time.Sunday, due)
}

func TestCreateTaskRequiresClaim(t *testing.T) {
	h := NewCreateTaskHandler(&fakeTaskDao{})

	_, err := h.Execute(context.Background(), map[string]any{"title": "t"}, &ExecutionContext{ExecutionId: "exec-1"})
	var validationErr ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestUpdateClaimStatusRequiresNewStatus(t *testing.T) {
	h := NewUpdateClaimStatusHandler(nil)

	_, err := h.Execute(context.Background(), map[string]any{}, claimContext(nil))
	require.Error(t, err)
	var validationErr ValidationError
	require.ErrorAs(t, err, &validationErr)
}
