package notify

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
)

// RunReport summarizes one batch run for the operator email.
type RunReport struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Published  []PublishedEntry
	Failed     []FailedEntry
	Fallbacks  int
	QuotaUsed  int
	QuotaLimit int
}

// PublishedEntry records one delivered post.
type PublishedEntry struct {
	Keyword  string
	Title    string
	Fallback bool
}

// FailedEntry records one keyword that produced no post.
type FailedEntry struct {
	Keyword string
	Reason  string
}

// Markdown renders the report as a markdown document.
func (r RunReport) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# 자동 포스팅 결과 (%s)\n\n", r.StartedAt.Format("2006-01-02"))
	fmt.Fprintf(&b, "- 실행 시간: %s ~ %s\n", r.StartedAt.Format("15:04:05"), r.FinishedAt.Format("15:04:05"))
	fmt.Fprintf(&b, "- 발행 성공: %d건 (폴백 %d건 포함)\n", len(r.Published), r.Fallbacks)
	fmt.Fprintf(&b, "- 발행 실패: %d건\n", len(r.Failed))
	fmt.Fprintf(&b, "- API 사용량: %d / %d\n", r.QuotaUsed, r.QuotaLimit)

	if len(r.Published) > 0 {
		b.WriteString("\n## 발행된 글\n\n")
		for _, e := range r.Published {
			marker := ""
			if e.Fallback {
				marker = " (폴백)"
			}
			fmt.Fprintf(&b, "- **%s**: %s%s\n", e.Keyword, e.Title, marker)
		}
	}

	if len(r.Failed) > 0 {
		b.WriteString("\n## 실패한 키워드\n\n")
		for _, e := range r.Failed {
			fmt.Fprintf(&b, "- **%s**: %s\n", e.Keyword, e.Reason)
		}
	}

	return b.String()
}

// HTML converts the markdown report to an HTML email body.
func (r RunReport) HTML() (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(r.Markdown()), &buf); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return buf.String(), nil
}
