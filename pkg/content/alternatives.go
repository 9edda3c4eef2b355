package content

import "strings"

// maxAlternatives bounds how many substitutions one optimization pass may
// perform.
const maxAlternatives = 5

var generalAlternatives = []string{
	"이 기술", "해당 솔루션", "이 도구", "관련 기술", "해당 플랫폼",
	"이 서비스", "관련 시스템", "해당 도구", "이 솔루션", "관련 서비스",
}

var categoryAlternatives = []struct {
	triggers     []string
	alternatives []string
}{
	{
		triggers:     []string{"ai", "인공지능", "머신러닝", "chatgpt"},
		alternatives: []string{"AI 기술", "인공지능 시스템", "머신러닝 모델", "AI 솔루션", "지능형 시스템"},
	},
	{
		triggers:     []string{"프로그래밍", "개발", "코딩", "javascript", "python"},
		alternatives: []string{"개발 기술", "프로그래밍 언어", "코딩 도구", "개발 환경", "프로그래밍 프레임워크"},
	},
	{
		triggers:     []string{"클라우드", "aws", "azure", "gcp"},
		alternatives: []string{"클라우드 서비스", "클라우드 플랫폼", "클라우드 인프라", "클라우드 솔루션", "클라우드 환경"},
	},
	{
		triggers:     []string{"블록체인", "암호화폐", "nft", "비트코인"},
		alternatives: []string{"블록체인 기술", "분산원장 기술", "암호화 기술", "디지털 자산", "탈중앙화 시스템"},
	},
}

// Alternatives returns up to five substitute expressions for a keyword.
// Keywords matching a known category get domain-specific alternatives;
// everything else falls back to the generic inventory.
func Alternatives(keyword string) []string {
	lower := strings.ToLower(keyword)

	list := generalAlternatives
	for _, cat := range categoryAlternatives {
		if containsAny(lower, cat.triggers) {
			list = cat.alternatives
			break
		}
	}

	if len(list) > maxAlternatives {
		list = list[:maxAlternatives]
	}
	return list
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
