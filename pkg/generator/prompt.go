package generator

import "fmt"

// promptTemplate fixes the content brief sent for every keyword: length
// band, keyword usage count, heading depth, and section count.
const promptTemplate = `'%s'에 대한 한국어 블로그 포스트를 작성해주세요.

중요한 요구사항:
- 길이: 1000-1200자
- '%s' 키워드를 정확히 4-5회만 사용 (과도한 반복 금지)
- 자연스럽고 읽기 쉬운 문체
- 제목은 ## 또는 ### 마커로 표시 (2-3단계 제목만 사용)
- 5개 섹션으로 구성

키워드 사용 가이드라인:
- '%s'를 과도하게 반복하지 마세요
- 대신 "이 기술", "해당 솔루션", "관련 도구" 등의 대체 표현 사용
- 자연스러운 문맥에서만 키워드 포함

실용적이고 전문적인 내용으로 작성해주세요.`

// BuildPrompt parameterizes the fixed template with the keyword.
func BuildPrompt(keyword string) string {
	return fmt.Sprintf(promptTemplate, keyword, keyword, keyword)
}
