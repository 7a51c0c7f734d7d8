// internal/engine/strategy/cards.go
package strategy

import (
	"fmt"

	"github.com/storecoach-kr/storecoach-backend/internal/domain"
)

// Alternative is a secondary card offered next to the primary CTA.
type Alternative struct {
	Title      string                 `json:"title"`
	Reason     string                 `json:"reason"`
	CTALabel   string                 `json:"cta_label"`
	CTAPage    string                 `json:"cta_page"`
	CTAContext map[string]interface{} `json:"cta_context"`
}

// Card is the single daily strategy card derived from the primary cause.
type Card struct {
	CauseType     string                 `json:"cause_type,omitempty"`
	Title         string                 `json:"title"`
	ReasonBullets []string               `json:"reason_bullets"`
	CTALabel      string                 `json:"cta_label"`
	CTAPage       string                 `json:"cta_page"`
	CTAContext    map[string]interface{} `json:"cta_context"`
	Alternatives  []Alternative          `json:"alternatives"`
}

// TaskTemplate is one checklist item of a mission template.
type TaskTemplate struct {
	Order int    `json:"task_order"`
	Title string `json:"task_title"`
}

// BuildCard maps a classified cause to its strategy card. Each card carries
// one built-in alternative pointing at the adjacent design room.
func BuildCard(cause Cause, s Signals) Card {
	card := Card{
		CauseType:    cause.Type,
		CTAContext:   map[string]interface{}{},
		Alternatives: []Alternative{},
	}

	switch cause.Type {
	case domain.CauseInflowDrop:
		card.Title = "포트폴리오 미분류 메뉴 1개 정리"
		card.ReasonBullets = []string{
			fmt.Sprintf("네이버방문자 %.1f%% 감소", s.VisitorsChangePct),
			"유인메뉴/대표메뉴 구성 점검 필요",
		}
		card.CTALabel = "메뉴 포트폴리오 설계실 열기"
		card.CTAPage = "메뉴 등록"
		card.CTAContext = map[string]interface{}{"_filter_unclassified": true}
		card.Alternatives = []Alternative{{
			Title:      "매출 분석으로 유입 원인 파악",
			Reason:     "네이버방문자 하락 원인을 자세히 분석하세요.",
			CTALabel:   "매출 분석 열기",
			CTAPage:    "매출 관리",
			CTAContext: map[string]interface{}{"_period_days": 14},
		}}

	case domain.CauseAvgpDrop:
		card.Title = "고원가율 메뉴 1개 가격 시뮬"
		card.ReasonBullets = []string{
			fmt.Sprintf("객단가 %.1f%% 하락", s.AvgpChangePct),
			"가격/마진 구조 점검 필요",
		}
		card.CTALabel = "가격 시뮬레이터 열기"
		card.CTAPage = "메뉴 수익 구조 설계실"
		card.CTAContext = map[string]interface{}{"_filter_high_cogs": true, "_initial_tab_메뉴 수익 구조 설계실": "execute"}
		card.Alternatives = []Alternative{{
			Title:      "포트폴리오 분류 점검",
			Reason:     "메뉴 역할(미끼/볼륨/마진) 균형을 확인하세요.",
			CTALabel:   "포트폴리오 설계실 열기",
			CTAPage:    "메뉴 등록",
			CTAContext: map[string]interface{}{"_initial_tab_메뉴 등록": "execute"},
		}}

	case domain.CauseQtyDrop:
		card.Title = "주력메뉴 판매량 1개 점검"
		card.ReasonBullets = []string{
			fmt.Sprintf("총 판매량 %.1f%% 감소", s.QtyChangePct),
			"주력메뉴 판매 추이 확인 필요",
		}
		card.CTALabel = "판매·메뉴 분석 열기"
		card.CTAPage = "판매 관리"
		card.CTAContext = map[string]interface{}{"_period_days": 14}
		card.Alternatives = []Alternative{{
			Title:      "포트폴리오 균형 점검",
			Reason:     "메뉴 조합이 판매량에 영향을 줄 수 있습니다.",
			CTALabel:   "포트폴리오 설계실 열기",
			CTAPage:    "메뉴 등록",
			CTAContext: map[string]interface{}{"_initial_tab_메뉴 등록": "execute"},
		}}

	case domain.CauseHeroMenuCollapse:
		menuName := "주력메뉴"
		var changePct float64
		if drops, ok := cause.Details["top_drops"].([]TopMenuChange); ok && len(drops) > 0 {
			menuName = drops[0].MenuName
			changePct = drops[0].ChangePct
		}
		card.Title = fmt.Sprintf("%s 가격/마진 시뮬", menuName)
		card.ReasonBullets = []string{
			fmt.Sprintf("%s 판매량 %.1f%% 급감", menuName, changePct),
			"가격/마진 구조 재점검 필요",
		}
		card.CTALabel = "가격 시뮬레이터 열기"
		card.CTAPage = "메뉴 수익 구조 설계실"
		card.CTAContext = map[string]interface{}{"_selected_menu": menuName, "_initial_tab_메뉴 수익 구조 설계실": "execute"}
		card.Alternatives = []Alternative{{
			Title:      "판매·메뉴 분석",
			Reason:     "주력메뉴 판매 추이를 자세히 분석하세요.",
			CTALabel:   "판매·메뉴 분석 열기",
			CTAPage:    "판매 관리",
			CTAContext: map[string]interface{}{"_period_days": 14},
		}}

	case domain.CauseCogsWorsening:
		card.Title = "고원가율 메뉴 1개 가격 시뮬"
		card.ReasonBullets = []string{
			fmt.Sprintf("고원가율 메뉴 %d개 확인", s.HighCogsMenuCount),
			"가격 조정 또는 원가 절감 필요",
		}
		card.CTALabel = "가격 시뮬레이터 열기"
		card.CTAPage = "메뉴 수익 구조 설계실"
		card.CTAContext = map[string]interface{}{"_filter_high_cogs": true, "_initial_tab_메뉴 수익 구조 설계실": "execute"}
		card.Alternatives = []Alternative{{
			Title:      "재료 구조 설계실",
			Reason:     "원가 집중도가 높으면 재료 대체재를 검토하세요.",
			CTALabel:   "재료 구조 설계실 열기",
			CTAPage:    "재료 등록",
			CTAContext: map[string]interface{}{"_filter_high_risk": true, "_initial_tab_재료 등록": "execute"},
		}}

	case domain.CauseStructuralRisk:
		card.Title = "손익분기점 시나리오 시뮬"
		card.ReasonBullets = []string{
			fmt.Sprintf("손익분기점 대비 %.0f%%", s.BreakEvenGapRatio*100),
			"고정비/변동비 구조 점검 필요",
		}
		card.CTALabel = "시나리오 시뮬레이터 열기"
		card.CTAPage = "수익 구조 설계실"
		card.CTAContext = map[string]interface{}{"_initial_tab_수익 구조 설계실": "execute"}
		card.Alternatives = []Alternative{{
			Title:      "목표 비용 구조 입력",
			Reason:     "고정비/변동비 구조를 재설정하세요.",
			CTALabel:   "목표 비용 구조 열기",
			CTAPage:    "목표 비용구조",
			CTAContext: map[string]interface{}{},
		}}

	default:
		card = defaultCard()
	}

	return card
}

// defaultCard is shown when no drop signal qualifies.
func defaultCard() Card {
	return Card{
		Title: "매출 하락 원인 찾기",
		ReasonBullets: []string{
			"현재 특별한 하락 신호가 감지되지 않았습니다.",
			"정기적으로 원인 분석을 진행하세요.",
		},
		CTALabel:     "원인 찾기 시작",
		CTAPage:      "매출 하락 원인 찾기",
		CTAContext:   map[string]interface{}{},
		Alternatives: []Alternative{},
	}
}

// ChecklistTemplate returns the mission checklist for a cause type. Unknown
// types fall back to a two-task generic list.
func ChecklistTemplate(causeType string) []TaskTemplate {
	switch causeType {
	case domain.CauseInflowDrop:
		return []TaskTemplate{
			{Order: 1, Title: "최근 14일 네이버방문자 추이 확인"},
			{Order: 2, Title: "리뷰/사진 1개 업데이트 계획 메모"},
			{Order: 3, Title: "대표 메뉴 1개 '유인' 포인트 문장 정리"},
			{Order: 4, Title: "오늘 운영 중 고객 응대 문구 1개 개선(메모)"},
		}
	case domain.CauseAvgpDrop:
		return []TaskTemplate{
			{Order: 1, Title: "고원가율(>=35%) 메뉴 TOP3 확인"},
			{Order: 2, Title: "1개 메뉴 가격 시뮬(목표 원가율 32~35%)"},
			{Order: 3, Title: "업셀 메뉴 1개 추천 문구 정리"},
			{Order: 4, Title: "가격 조정 후보 1개 최종 결정"},
		}
	case domain.CauseQtyDrop:
		return []TaskTemplate{
			{Order: 1, Title: "주력메뉴 판매량 추이 확인"},
			{Order: 2, Title: "판매량 급감 메뉴 1개 원인 분석"},
			{Order: 3, Title: "메뉴 구성/조합 개선 아이디어 메모"},
			{Order: 4, Title: "오늘 운영 중 판매 전략 1개 적용"},
		}
	case domain.CauseHeroMenuCollapse:
		return []TaskTemplate{
			{Order: 1, Title: "주력메뉴 가격/마진 구조 재점검"},
			{Order: 2, Title: "가격 시뮬(목표 원가율 32~35%)"},
			{Order: 3, Title: "대체 주력메뉴 후보 1개 선정"},
			{Order: 4, Title: "가격 조정 또는 메뉴 교체 결정"},
		}
	case domain.CauseCogsWorsening:
		return []TaskTemplate{
			{Order: 1, Title: "고원가율(>=35%) 메뉴 TOP3 확인"},
			{Order: 2, Title: "1개 메뉴 가격 시뮬(목표 원가율 32~35%)"},
			{Order: 3, Title: "대체재 후보 1개 메모"},
			{Order: 4, Title: "\"마진 역할\" 메뉴 1개 지정"},
		}
	case domain.CauseStructuralRisk:
		return []TaskTemplate{
			{Order: 1, Title: "손익분기점 vs 예상매출 비교 확인"},
			{Order: 2, Title: "고정비 구조 점검(목표 비용 구조 확인)"},
			{Order: 3, Title: "변동비율 개선 방안 1개 메모"},
			{Order: 4, Title: "시나리오 시뮬(목표 매출 입력)"},
			{Order: 5, Title: "고정비 조정 또는 매출 목표 재설정"},
		}
	default:
		return []TaskTemplate{
			{Order: 1, Title: "매출 하락 원인 분석"},
			{Order: 2, Title: "개선 방안 1개 정리"},
		}
	}
}

// PickPrimary turns the ordered cause list into the day's single card. The
// first cause is the primary; the remaining top causes contribute
// alternatives. Alternatives are deduplicated by cta_page, keeping the
// higher-priority card, and capped at two.
func PickPrimary(causes []Cause, s Signals) Card {
	if len(causes) == 0 {
		return defaultCard()
	}

	card := BuildCard(causes[0], s)

	end := len(causes)
	if end > 3 {
		end = 3
	}
	for _, cause := range causes[1:end] {
		alt := BuildCard(cause, s)
		if alt.Title == "" {
			continue
		}
		card.Alternatives = append(card.Alternatives, Alternative{
			Title:      alt.Title,
			Reason:     joinBullets(alt.ReasonBullets),
			CTALabel:   alt.CTALabel,
			CTAPage:    alt.CTAPage,
			CTAContext: alt.CTAContext,
		})
	}

	card.Alternatives = dedupeAlternatives(card.Alternatives)
	return card
}

func joinBullets(bullets []string) string {
	out := ""
	for i, b := range bullets {
		if i > 0 {
			out += " / "
		}
		out += b
	}
	return out
}

func dedupeAlternatives(alts []Alternative) []Alternative {
	seen := make(map[string]bool, len(alts))
	out := make([]Alternative, 0, len(alts))
	for _, alt := range alts {
		if seen[alt.CTAPage] {
			continue
		}
		seen[alt.CTAPage] = true
		out = append(out, alt)
		if len(out) == 2 {
			break
		}
	}
	return out
}
