package content

// minBodyChars triggers padding on generated drafts that came back shorter
// than the prompt asked for.
const minBodyChars = 800

// paddingParagraph is intentionally keyword-free so padding never inflates
// density.
const paddingParagraph = "이러한 기술 발전은 IT 업계 전반에 긍정적인 영향을 미치고 있습니다. " +
	"더 나은 사용자 경험과 비즈니스 가치를 창출할 수 있는 새로운 기회를 제공하고 있습니다."

// Compose builds the deterministic fallback draft used when the generator is
// unavailable or its output failed the quality gate. Six fixed sections in
// business-blog register; the keyword is planted in exactly three template
// slots so the draft arrives under-dense and the optimizer raises it to the
// target band.
func Compose(keyword string) *Document {
	doc := &Document{Blocks: []Block{
		{Kind: KindHeading, Level: 2, Text: "기술 개요와 배경"},
		{Kind: KindParagraph, Text: "2025년 현재 IT 업계에서 주목도가 가장 높은 기술을 꼽는다면 단연 이 혁신적인 솔루션을 들 수 있습니다. " +
			"현대적인 개발 환경에서 그 중요성은 꾸준히 커지고 있으며, 여러 산업 분야에 의미 있는 변화를 만들어내고 있습니다."},
		{Kind: KindHeading, Level: 3, Text: "주요 특징과 장점"},
		{Kind: KindParagraph, Text: "가장 큰 강점은 효율성과 확장성입니다. 기존 방식과 비교하면 더 나은 성능과 사용자 경험을 제공하며, " +
			"특히 현대적인 개발 프로세스에서 생산성 향상에 크게 기여합니다. 이러한 기술을 도입한 조직일수록 업무 개선 효과가 뚜렷하게 나타납니다."},
		{Kind: KindHeading, Level: 3, Text: "시장 동향과 전망"},
		{Kind: KindParagraph, Text: "시장 분석 자료를 보면 관련 분야의 성장률은 상승세를 유지하고 있습니다. 주요 기업들이 관련 기술을 " +
			"도입하면서 생태계가 빠르게 확장되고 있고, 향후 몇 년간 이 추세는 이어질 것으로 예상됩니다."},
		{Kind: KindHeading, Level: 3, Text: "실무 활용 방안"},
		{Kind: KindParagraph, Text: "실제 프로젝트에 적용할 때는 단계적인 접근이 중요합니다. 기본 개념을 먼저 이해하고 소규모 프로젝트에서 " +
			"검증한 뒤 점진적으로 확장하는 방식이 안전합니다. 성공적인 도입을 위해서는 팀 차원의 충분한 학습과 준비가 필요합니다."},
		{Kind: KindHeading, Level: 3, Text: "학습 리소스와 도구"},
		{Kind: KindParagraph, Text: "학습과 개발을 지원하는 다양한 도구가 이미 제공되고 있습니다. 공식 문서와 튜토리얼, 커뮤니티 포럼을 " +
			"통해 최신 정보를 얻을 수 있고, 실습 환경도 어렵지 않게 구축할 수 있습니다."},
		{Kind: KindHeading, Level: 3, Text: "결론 및 향후 전망"},
		{Kind: KindParagraph, Text: "이와 같은 기술 발전은 일시적인 유행을 넘어 IT 산업의 패러다임을 바꾸는 흐름입니다. 꾸준한 학습과 " +
			"실습으로 역량을 쌓는다면 경쟁력 있는 전문가로 성장할 수 있으며, 그 준비는 지금 시작하는 것이 좋습니다."},
	}}

	// Exactly three keyword slots: product-name mention, "this technology"
	// mention, "related technology" mention.
	replaceFirstOccurrence(doc, "이 혁신적인 솔루션", keyword)
	replaceFirstOccurrence(doc, "이러한 기술", keyword+" 기술")
	replaceFirstOccurrence(doc, "관련 기술", keyword)

	return doc
}

// PadShortBody appends one keyword-free paragraph when plain text is under
// 800 characters. Returns true when padding was added.
func PadShortBody(doc *Document) bool {
	if doc.CharCount() >= minBodyChars {
		return false
	}
	doc.Blocks = append(doc.Blocks, Block{Kind: KindParagraph, Text: paddingParagraph})
	return true
}
