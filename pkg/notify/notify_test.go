package notify

import (
	"net/smtp"
	"strings"
	"testing"
	"time"

	"autoblog-go/pkg/logger"
)

func sampleReport() RunReport {
	started := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return RunReport{
		StartedAt:  started,
		FinishedAt: started.Add(12 * time.Minute),
		Published: []PublishedEntry{
			{Keyword: "클라우드 보안", Title: "클라우드 보안 완벽 가이드 2025"},
			{Keyword: "양자 컴퓨팅", Title: "양자 컴퓨팅 최신 동향과 활용법", Fallback: true},
		},
		Failed: []FailedEntry{
			{Keyword: "데브옵스", Reason: "발행 요청 실패"},
		},
		Fallbacks:  1,
		QuotaUsed:  3,
		QuotaLimit: 200,
	}
}

func TestRunReportMarkdown(t *testing.T) {
	md := sampleReport().Markdown()

	for _, want := range []string{
		"# 자동 포스팅 결과 (2025-03-01)",
		"발행 성공: 2건 (폴백 1건 포함)",
		"발행 실패: 1건",
		"API 사용량: 3 / 200",
		"**양자 컴퓨팅**: 양자 컴퓨팅 최신 동향과 활용법 (폴백)",
		"**데브옵스**: 발행 요청 실패",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestRunReportHTML(t *testing.T) {
	html, err := sampleReport().HTML()
	if err != nil {
		t.Fatalf("HTML render failed: %v", err)
	}
	if !strings.Contains(html, "<h1") {
		t.Errorf("expected rendered heading, got:\n%s", html)
	}
	if !strings.Contains(html, "<li>") {
		t.Errorf("expected rendered list items, got:\n%s", html)
	}
}

func TestSMTPNotifierSendsHTMLMessage(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	n := &smtpNotifier{
		config: SMTPConfig{
			Host: "smtp.example.com",
			Port: 587,
			From: "bot@example.com",
			To:   []string{"ops@example.com"},
		},
		send: func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
			gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
			return nil
		},
		log: logger.GetLogger().WithComponent("notifier"),
	}

	if err := n.Notify(sampleReport()); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if gotAddr != "smtp.example.com:587" {
		t.Errorf("unexpected addr %q", gotAddr)
	}
	if gotFrom != "bot@example.com" || len(gotTo) != 1 {
		t.Errorf("unexpected envelope: from=%q to=%v", gotFrom, gotTo)
	}
	msg := string(gotMsg)
	if !strings.Contains(msg, "Content-Type: text/html; charset=UTF-8") {
		t.Error("expected HTML content type header")
	}
	if !strings.Contains(msg, "Subject: 자동 포스팅 결과: 성공 2건 / 실패 1건") {
		t.Errorf("unexpected subject in message:\n%s", msg)
	}
}

func TestNewSMTPNotifierValidation(t *testing.T) {
	if _, err := NewSMTPNotifier(SMTPConfig{Host: "h", From: "f"}); err == nil {
		t.Error("expected error for missing recipients")
	}
}
