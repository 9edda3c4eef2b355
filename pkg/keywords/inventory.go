package keywords

import (
	"math/rand"
	"strings"
	"time"
)

// itMarkers decides whether a trend title belongs on an IT blog.
var itMarkers = []string{
	"ai", "인공지능", "머신러닝", "딥러닝", "chatgpt", "gpt",
	"프로그래밍", "개발", "코딩", "개발자", "소프트웨어",
	"클라우드", "aws", "azure", "서버", "데이터",
	"블록체인", "암호화폐", "비트코인", "nft", "메타버스",
	"it", "테크", "기술", "스타트업", "앱", "플랫폼",
	"보안", "해킹", "반도체", "로봇", "자율주행", "iot",
}

// IsITRelated reports whether the keyword mentions a technology topic.
func IsITRelated(keyword string) bool {
	lower := strings.ToLower(keyword)
	for _, marker := range itMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// Standing inventory used when no feed is configured or reachable. The
// pools are split by time of day so consecutive runs in one day do not all
// draw the same topics.
var (
	workHourPool = []string{
		"클라우드 마이그레이션", "데브옵스 자동화", "마이크로서비스 아키텍처",
		"API 설계", "코드 리뷰 문화", "애자일 개발 방법론",
		"CI/CD 파이프라인", "컨테이너 오케스트레이션",
	}

	eveningPool = []string{
		"사이드 프로젝트", "개발자 커리어", "코딩 테스트 준비",
		"오픈소스 기여", "개발자 생산성 도구", "기술 블로그 운영",
		"홈 서버 구축", "개발자 재택근무",
	}

	nightPool = []string{
		"인공지능 윤리", "미래 기술 전망", "메타버스 플랫폼",
		"양자 컴퓨팅", "우주 기술 산업", "디지털 노마드",
	}

	hotTopicPool = []string{
		"생성형 AI 활용", "ChatGPT 업무 자동화", "AI 코딩 어시스턴트",
		"대규모 언어 모델", "프롬프트 엔지니어링", "AI 반도체 경쟁",
		"온디바이스 AI", "AI 검색 엔진",
	}

	seasonalPool = map[time.Month][]string{
		time.January:   {"신년 IT 트렌드 전망", "개발자 새해 목표"},
		time.March:     {"개발자 채용 시장", "신입 개발자 취업 준비"},
		time.June:      {"상반기 기술 결산", "여름 해커톤 준비"},
		time.September: {"하반기 기술 컨퍼런스", "개발자 이직 전략"},
		time.December:  {"올해의 프로그래밍 언어", "연말 기술 회고"},
	}
)

// FallbackKeywords samples the standing inventory: always a slice of the hot
// topics, plus a time-of-day pool and any seasonal entries. The rng controls
// which hot topics are drawn so batches vary between runs.
func FallbackKeywords(now time.Time, rng *rand.Rand) []string {
	hour := now.Hour()

	var pool []string
	switch {
	case hour >= 9 && hour < 18:
		pool = workHourPool
	case hour >= 18 && hour < 23:
		pool = eveningPool
	default:
		pool = nightPool
	}

	keywords := make([]string, 0, len(pool)+6)

	hot := make([]string, len(hotTopicPool))
	copy(hot, hotTopicPool)
	rng.Shuffle(len(hot), func(i, j int) { hot[i], hot[j] = hot[j], hot[i] })
	keywords = append(keywords, hot[:4]...)

	keywords = append(keywords, pool...)
	keywords = append(keywords, seasonalPool[now.Month()]...)

	return keywords
}
