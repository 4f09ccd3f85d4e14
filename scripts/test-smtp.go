package main

import (
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-smtp"
)

func main() {
	if len(os.Args) < 4 {
		fmt.Println("Usage: go run test-smtp.go <smtp-host> <smtp-port> <email-to>")
		fmt.Println("Example: go run test-smtp.go localhost 2525 test@ysweb.biz.id")
		os.Exit(1)
	}

	host := os.Args[1]
	port := os.Args[2]
	to := os.Args[3]

	addr := fmt.Sprintf("%s:%s", host, port)
	fmt.Printf("Connecting to SMTP server %s...\n", addr)

	client, err := smtp.Dial(addr)
	if err != nil {
		log.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()
	fmt.Println("✓ Connected")

	if err := client.Mail("test@example.com", nil); err != nil {
		log.Fatalf("MAIL FROM failed: %v", err)
	}
	fmt.Println("✓ MAIL FROM accepted")

	if err := client.Rcpt(to, nil); err != nil {
		log.Fatalf("RCPT TO failed: %v", err)
	}
	fmt.Printf("✓ RCPT TO accepted for %s\n", to)

	wc, err := client.Data()
	if err != nil {
		log.Fatalf("DATA failed: %v", err)
	}

	if _, err := wc.Write([]byte(testMessage(to))); err != nil {
		log.Fatalf("Write failed: %v", err)
	}
	if err := wc.Close(); err != nil {
		log.Fatalf("Closing DATA failed: %v", err)
	}
	if err := client.Quit(); err != nil {
		log.Printf("QUIT failed: %v", err)
	}

	fmt.Println("✓ Message sent")
	fmt.Printf("Check the inbox: GET /api/inbox?address=%s\n", to)
}

// testMessage собирает multipart-письмо с текстом, HTML и одним вложением
func testMessage(to string) string {
	const boundary = "vaultmail-test"
	attachment := base64.StdEncoding.EncodeToString([]byte("hello from the test script\n"))

	lines := []string{
		"From: Test Sender <test@example.com>",
		"To: " + to,
		"Subject: Test Message",
		"Date: " + time.Now().Format(time.RFC1123Z),
		"MIME-Version: 1.0",
		`Content-Type: multipart/mixed; boundary="` + boundary + `"`,
		"",
		"--" + boundary,
		`Content-Type: multipart/alternative; boundary="` + boundary + `-alt"`,
		"",
		"--" + boundary + "-alt",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"This is a test message sent at " + time.Now().Format(time.RFC3339),
		"--" + boundary + "-alt",
		"Content-Type: text/html; charset=utf-8",
		"",
		"<p>This is a <strong>test</strong> message.</p>",
		"--" + boundary + "-alt--",
		"--" + boundary,
		`Content-Type: text/plain; name="hello.txt"`,
		`Content-Disposition: attachment; filename="hello.txt"`,
		"Content-Transfer-Encoding: base64",
		"",
		attachment,
		"--" + boundary + "--",
		"",
	}
	return strings.Join(lines, "\r\n")
}
