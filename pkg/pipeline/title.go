package pipeline

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const defaultCategory = "IT 트렌드"

const maxTags = 6

var titleTemplates = []string{
	"%s 완벽 가이드 2025",
	"%s 최신 동향과 활용법",
	"2025년 %s 트렌드 분석",
	"%s 실무 활용 전략",
	"%s 마스터하기",
}

var baseTags = []string{"IT트렌드", "기술동향", "2025"}

// tagExtras mirrors the keyword categories used for density alternatives.
var tagExtras = []struct {
	triggers []string
	tags     []string
}{
	{[]string{"ai", "인공지능", "머신러닝", "chatgpt"}, []string{"인공지능", "머신러닝"}},
	{[]string{"프로그래밍", "개발", "코딩", "javascript", "python"}, []string{"프로그래밍", "개발자"}},
	{[]string{"클라우드", "aws", "azure", "gcp"}, []string{"클라우드", "인프라"}},
	{[]string{"블록체인", "암호화폐", "nft", "비트코인"}, []string{"블록체인", "웹3"}},
}

var titleCaser = cases.Title(language.English)

// buildTitle picks one of the title templates at random. Latin-script
// keywords are title-cased so English product names read naturally.
func (o *Orchestrator) buildTitle(keyword string) string {
	display := keyword
	if isLatin(keyword) {
		display = titleCaser.String(keyword)
	}
	template := titleTemplates[o.rng.Intn(len(titleTemplates))]
	return fmt.Sprintf(template, display)
}

// buildTags returns the keyword plus the standing tags plus category
// extras, deduplicated and capped.
func buildTags(keyword string) []string {
	tags := make([]string, 0, maxTags)
	tags = append(tags, keyword)
	tags = append(tags, baseTags...)

	lower := strings.ToLower(keyword)
	for _, group := range tagExtras {
		for _, trigger := range group.triggers {
			if strings.Contains(lower, trigger) {
				tags = append(tags, group.tags...)
				break
			}
		}
	}

	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, maxTags)
	for _, tag := range tags {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
		if len(out) == maxTags {
			break
		}
	}
	return out
}

func isLatin(s string) bool {
	sawLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if !unicode.In(r, unicode.Latin) {
				return false
			}
			sawLetter = true
		}
	}
	return sawLetter
}
