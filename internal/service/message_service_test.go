package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/yasirarism/vaultmail/internal/attachment"
	"github.com/yasirarism/vaultmail/internal/domain"
)

func seedMessage(t *testing.T, store *memoryMessages, msg *domain.Message) *domain.Message {
	t.Helper()
	if err := store.Insert(context.Background(), msg); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	return msg
}

func TestInboxValidatesAddress(t *testing.T) {
	t.Parallel()

	svc := NewMessageService(newMemoryMessages(), nil, zap.NewNop())
	if _, err := svc.Inbox(context.Background(), " ab ", false); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("got %v, want ErrValidation", err)
	}
}

func TestInboxStripsContentUnlessRequested(t *testing.T) {
	t.Parallel()

	store := newMemoryMessages()
	seedMessage(t, store, &domain.Message{
		Address: "b@b.com", FromRaw: "a@a.com", ToRaw: "b@b.com",
		Attachments: []domain.Attachment{{Filename: "a.txt", Size: 3, ContentBase64: "QUJD"}},
	})
	svc := NewMessageService(store, nil, zap.NewNop())

	stripped, err := svc.Inbox(context.Background(), "B@B.com", false)
	if err != nil {
		t.Fatalf("Inbox: %v", err)
	}
	if len(stripped) != 1 || stripped[0].Attachments[0].ContentBase64 != "" {
		t.Fatalf("stripped inbox: got %+v", stripped)
	}

	full, err := svc.Inbox(context.Background(), "b@b.com", true)
	if err != nil {
		t.Fatalf("Inbox: %v", err)
	}
	if full[0].Attachments[0].ContentBase64 != "QUJD" {
		t.Errorf("full inbox: content missing")
	}
}

func TestInboxNewestFirst(t *testing.T) {
	t.Parallel()

	store := newMemoryMessages()
	now := time.Now()
	seedMessage(t, store, &domain.Message{Address: "b@b.com", Subject: "old", CreatedAt: now.Add(-time.Hour)})
	seedMessage(t, store, &domain.Message{Address: "b@b.com", Subject: "new", CreatedAt: now})
	seedMessage(t, store, &domain.Message{Address: "c@c.com", Subject: "other", CreatedAt: now})

	list, err := NewMessageService(store, nil, zap.NewNop()).Inbox(context.Background(), "b@b.com", false)
	if err != nil {
		t.Fatalf("Inbox: %v", err)
	}
	if len(list) != 2 || list[0].Subject != "new" || list[1].Subject != "old" {
		t.Errorf("got %d messages, first %q", len(list), list[0].Subject)
	}
}

func TestDownloadEmail(t *testing.T) {
	t.Parallel()

	store := newMemoryMessages()
	msg := seedMessage(t, store, &domain.Message{
		Address: "b@b.com", FromRaw: "A <a@a.com>", ToRaw: "b@b.com",
		Subject: "Hi", Text: "hello", HTML: "hello",
		CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	})
	svc := NewMessageService(store, nil, zap.NewNop())

	for i := 0; i < 2; i++ {
		file, err := svc.Download(context.Background(), DownloadRequest{Address: "b@b.com", EmailID: msg.ID, Type: "email"})
		if err != nil {
			t.Fatalf("Download %d: %v", i, err)
		}
		body := string(file.Body)
		for _, want := range []string{"Subject: Hi", "From: A <a@a.com>", "Date: Fri, 01 Mar 2024 10:00:00 +0000", "Content-Type: text/html; charset=utf-8"} {
			if !strings.Contains(body, want) {
				t.Errorf("document missing %q:\n%s", want, body)
			}
		}
		if file.Filename != "Hi.eml" || file.ContentType != "message/rfc822; charset=utf-8" {
			t.Errorf("file: got %q %q", file.Filename, file.ContentType)
		}
	}

	stored, _ := store.GetByID(context.Background(), msg.ID)
	if !stored.Read {
		t.Error("message not marked read")
	}
}

func TestDownloadEmailPlainAndDefaultType(t *testing.T) {
	t.Parallel()

	store := newMemoryMessages()
	msg := seedMessage(t, store, &domain.Message{Address: "b@b.com", Text: "only text"})

	file, err := NewMessageService(store, nil, zap.NewNop()).Download(context.Background(), DownloadRequest{Address: "b@b.com", EmailID: msg.ID})
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	body := string(file.Body)
	if !strings.Contains(body, "Content-Type: text/plain; charset=utf-8") || !strings.HasSuffix(body, "only text") {
		t.Errorf("got:\n%s", body)
	}
	if !strings.Contains(body, "Subject: (No Subject)") || file.Filename != "No_Subject.eml" {
		t.Errorf("subject placeholder: filename %q body:\n%s", file.Filename, body)
	}
}

func TestDownloadErrors(t *testing.T) {
	t.Parallel()

	store := newMemoryMessages()
	msg := seedMessage(t, store, &domain.Message{
		Address: "b@b.com",
		Attachments: []domain.Attachment{
			{Filename: "ok.txt", ContentType: "text/plain", Size: 3, ContentBase64: "QUJD"},
			{Filename: "big.bin", Size: 9_000_000, Omitted: true},
		},
	})
	svc := NewMessageService(store, nil, zap.NewNop())

	tests := []struct {
		name string
		req  DownloadRequest
		want error
	}{
		{"missing address", DownloadRequest{EmailID: msg.ID}, domain.ErrValidation},
		{"missing id", DownloadRequest{Address: "b@b.com"}, domain.ErrValidation},
		{"bad type", DownloadRequest{Address: "b@b.com", EmailID: msg.ID, Type: "zip"}, domain.ErrValidation},
		{"unknown id", DownloadRequest{Address: "b@b.com", EmailID: "nope"}, domain.ErrNotFound},
		{"wrong address", DownloadRequest{Address: "c@c.com", EmailID: msg.ID}, domain.ErrForbidden},
		{"no index", DownloadRequest{Address: "b@b.com", EmailID: msg.ID, Type: "attachment"}, domain.ErrNotFound},
		{"bad index", DownloadRequest{Address: "b@b.com", EmailID: msg.ID, Type: "attachment", Index: "x"}, domain.ErrValidation},
		{"out of range", DownloadRequest{Address: "b@b.com", EmailID: msg.ID, Type: "attachment", Index: "3"}, domain.ErrNotFound},
		{"negative index", DownloadRequest{Address: "b@b.com", EmailID: msg.ID, Type: "attachment", Index: "-1"}, domain.ErrNotFound},
		{"omitted", DownloadRequest{Address: "b@b.com", EmailID: msg.ID, Type: "attachment", Index: "1"}, domain.ErrPayloadTooLarge},
	}

	for _, tt := range tests {
		if _, err := svc.Download(context.Background(), tt.req); !errors.Is(err, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestDownloadAttachment(t *testing.T) {
	t.Parallel()

	store := newMemoryMessages()
	msg := seedMessage(t, store, &domain.Message{
		Address:     "b@b.com",
		Attachments: []domain.Attachment{{Filename: "my report.txt", ContentType: "text/plain", Size: 3, ContentBase64: "QUJD"}},
	})

	file, err := NewMessageService(store, nil, zap.NewNop()).Download(context.Background(), DownloadRequest{
		Address: "B@b.com", EmailID: msg.ID, Type: "attachment", Index: "0",
	})
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if string(file.Body) != "ABC" || file.Filename != "my_report.txt" || file.ContentType != "text/plain" {
		t.Errorf("got %q %q %q", file.Body, file.Filename, file.ContentType)
	}
}

func TestDownloadEmptyAttachment(t *testing.T) {
	t.Parallel()

	store := newMemoryMessages()
	empty := attachment.NewProcessor(10).FromBytes("empty.txt", "text/plain", nil)
	msg := seedMessage(t, store, &domain.Message{Address: "b@b.com", Attachments: []domain.Attachment{empty}})

	file, err := NewMessageService(store, nil, zap.NewNop()).Download(context.Background(), DownloadRequest{
		Address: "b@b.com", EmailID: msg.ID, Type: "attachment", Index: "0",
	})
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if len(file.Body) != 0 || file.Filename != "empty.txt" {
		t.Errorf("got %q %q, want an empty empty.txt", file.Body, file.Filename)
	}
}

func TestMessageServiceStats(t *testing.T) {
	t.Parallel()

	store := newMemoryMessages()
	seedMessage(t, store, &domain.Message{Address: "a@a.com"})
	seedMessage(t, store, &domain.Message{Address: "a@a.com"})
	seedMessage(t, store, &domain.Message{Address: "b@b.com"})

	stats := NewStats()
	stats.IncrementIngested()
	stats.RecordSweep(4, time.Now())

	got, err := NewMessageService(store, stats, zap.NewNop()).Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if got.InboxCount != 2 || got.MessageCount != 3 || got.LatestReceivedAt == nil {
		t.Errorf("store stats: got %+v", got)
	}
	if got.IngestedSinceStart != 1 || got.ExpiredSinceStart != 4 || got.LastSweepAt == nil {
		t.Errorf("process stats: got %+v", got)
	}
}

func TestIngestThenReadAndDownload(t *testing.T) {
	t.Parallel()

	ingest, store, _ := newIngestFixture(0)
	svc := NewMessageService(store, nil, zap.NewNop())
	ctx := context.Background()

	body := `{"from":"A <a@a.com>","to":"b@b.com","subject":"Hi","text":"hello"}`
	msg, err := ingest.Ingest(ctx, &JSONInput{Body: []byte(body)})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	inbox, err := svc.Inbox(ctx, "b@b.com", false)
	if err != nil {
		t.Fatalf("Inbox: %v", err)
	}
	if len(inbox) != 1 || inbox[0].ID != msg.ID || inbox[0].Read {
		t.Fatalf("inbox: got %+v", inbox)
	}

	for i := 0; i < 2; i++ {
		file, err := svc.Download(ctx, DownloadRequest{Address: "b@b.com", EmailID: msg.ID, Type: "email"})
		if err != nil {
			t.Fatalf("Download %d: %v", i, err)
		}
		if !strings.Contains(string(file.Body), "Subject: Hi") {
			t.Errorf("Download %d: document missing subject", i)
		}
	}

	inbox, _ = svc.Inbox(ctx, "b@b.com", false)
	if len(inbox) != 1 || !inbox[0].Read {
		t.Errorf("inbox after download: got %+v", inbox)
	}
}
