package handler

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yasirarism/vaultmail/internal/domain"
	"github.com/yasirarism/vaultmail/internal/service"
)

func TestGetInbox(t *testing.T) {
	t.Parallel()

	env := newTestEnv("", nil)
	env.mailbox.messages = []*domain.Message{{ID: "1", Address: "box@a.com", Subject: "hi"}}

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/api/inbox?address=box@a.com&includeContent=true", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}

	var got struct {
		Emails []struct {
			ID      string `json:"id"`
			Subject string `json:"subject"`
		} `json:"emails"`
	}
	decodeBody(t, resp, &got)
	if len(got.Emails) != 1 || got.Emails[0].ID != "1" {
		t.Errorf("emails: got %+v", got.Emails)
	}
	if !env.mailbox.content {
		t.Error("includeContent=true was not passed through")
	}
}

func TestGetInboxEmptyIsArray(t *testing.T) {
	t.Parallel()

	env := newTestEnv("", nil)
	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/api/inbox?address=nobody@a.com", nil))
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != `{"emails":[]}` {
		t.Errorf("body: got %s", body)
	}
}

func TestGetInboxShortAddress(t *testing.T) {
	t.Parallel()

	env := newTestEnv("", nil)
	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/api/inbox?address=ab", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", resp.StatusCode)
	}
}

func TestDownloadHeaders(t *testing.T) {
	t.Parallel()

	env := newTestEnv("", nil)
	env.mailbox.file = &service.File{
		Filename:    "Hello.eml",
		ContentType: "message/rfc822; charset=utf-8",
		Body:        []byte("From: a@b.com\r\n"),
	}

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/api/download?address=box@a.com&emailId=42&type=email", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); got != "message/rfc822; charset=utf-8" {
		t.Errorf("Content-Type: got %q", got)
	}
	if got := resp.Header.Get("Content-Disposition"); got != `attachment; filename="Hello.eml"` {
		t.Errorf("Content-Disposition: got %q", got)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "From: a@b.com\r\n" {
		t.Errorf("body: got %q", body)
	}

	want := service.DownloadRequest{Address: "box@a.com", EmailID: "42", Type: "email"}
	if env.mailbox.request != want {
		t.Errorf("request: got %+v, want %+v", env.mailbox.request, want)
	}
}

func TestDownloadErrorStatuses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: missing", domain.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("%w: mismatch", domain.ErrForbidden), http.StatusForbidden},
		{fmt.Errorf("%w: gone", domain.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: omitted", domain.ErrPayloadTooLarge), http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		env := newTestEnv("", nil)
		env.mailbox.err = tt.err
		resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/api/download?address=box@a.com&emailId=1&type=attachment&index=0", nil))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != tt.want {
			t.Errorf("%v: status got %d, want %d", tt.err, resp.StatusCode, tt.want)
		}
	}
}
