package suspicion

import "pawcheck/internal/domain"

// Question ids the rules read. They match the embedded default bank; a
// custom bank that uses other ids simply fires no rules.
const (
	qVomit        = "q.gi.vomit"
	qDiarrhea     = "q.gi.diarrhea"
	qBloodyStool  = "q.gi.bloody_stool"
	qAppetiteLoss = "q.gi.appetite_loss"
	qBloating     = "q.gi.bloating"
	qToxin        = "q.gi.toxin"

	qCough          = "q.resp.cough"
	qNightCough     = "q.resp.night_cough"
	qNasalDischarge = "q.resp.nasal_discharge"
	qDyspnea        = "q.resp.dyspnea"

	qItch     = "q.skin.itch"
	qRedness  = "q.skin.redness"
	qHairLoss = "q.skin.hair_loss"
	qEarOdor  = "q.skin.ear_odor"

	qLimp          = "q.msk.limp"
	qJointSwelling = "q.msk.joint_swelling"
	qStairs        = "q.msk.stairs"

	qThirst       = "q.endo.thirst"
	qUrination    = "q.endo.urination"
	qWeightChange = "q.endo.weight_change"
	qLethargy     = "q.endo.lethargy"

	qNoHeartworm = "q.prior.no_heartworm"
	qSenior      = "q.prior.senior"
)

// Rule fires a suspicion in one category when its predicate holds.
type Rule struct {
	Category  domain.Category
	When      func(domain.AnswerMap) bool
	Suspicion domain.Suspicion
}

func yes(id string) func(domain.AnswerMap) bool {
	return func(m domain.AnswerMap) bool { return isTrue(m, id) }
}

func often(id string) func(domain.AnswerMap) bool {
	return func(m domain.AnswerMap) bool { return isChoice(m, id, domain.ChoiceOften) }
}

func sometimes(id string) func(domain.AnswerMap) bool {
	return func(m domain.AnswerMap) bool { return isChoice(m, id, domain.ChoiceSometimes) }
}

// present is true for 가끔 or 자주.
func present(id string) func(domain.AnswerMap) bool {
	return func(m domain.AnswerMap) bool {
		return isChoice(m, id, domain.ChoiceSometimes) || isChoice(m, id, domain.ChoiceOften)
	}
}

func not(p func(domain.AnswerMap) bool) func(domain.AnswerMap) bool {
	return func(m domain.AnswerMap) bool { return !p(m) }
}

func and(ps ...func(domain.AnswerMap) bool) func(domain.AnswerMap) bool {
	return func(m domain.AnswerMap) bool {
		for _, p := range ps {
			if !p(m) {
				return false
			}
		}
		return true
	}
}

func isTrue(m domain.AnswerMap, id string) bool {
	v, ok := m[id].Bool()
	return ok && v
}

func isChoice(m domain.AnswerMap, id string, want domain.Choice) bool {
	c, ok := m[id].Choice()
	return ok && c == want
}

func suspect(name, reason string, c domain.Confidence) domain.Suspicion {
	return domain.Suspicion{Name: name, Reason: reason, Confidence: c}
}

// DefaultRules is the rule catalogue for the default bank. Within a
// category, rule order breaks confidence ties.
var DefaultRules = []Rule{
	// GI
	{domain.CategoryGI, yes(qBloodyStool), suspect("출혈성 장염", "혈변이 관찰됩니다.", domain.ConfidenceHigh)},
	{domain.CategoryGI, yes(qToxin), suspect("중독", "위험한 물질을 섭취했을 가능성이 있습니다.", domain.ConfidenceHigh)},
	{domain.CategoryGI, yes(qBloating), suspect("위확장·염전", "복부 팽만과 헛구역질이 있습니다.", domain.ConfidenceHigh)},
	{domain.CategoryGI, and(often(qVomit), often(qDiarrhea)), suspect("급성 위장염", "잦은 구토와 설사가 함께 나타납니다.", domain.ConfidenceHigh)},
	{domain.CategoryGI, often(qVomit), suspect("급성 위장염", "구토가 잦습니다.", domain.ConfidenceMedium)},
	{domain.CategoryGI, often(qDiarrhea), suspect("장염", "설사가 잦습니다.", domain.ConfidenceMedium)},
	{domain.CategoryGI, sometimes(qDiarrhea), suspect("장염", "가끔 설사를 합니다.", domain.ConfidenceLow)},
	{domain.CategoryGI, and(yes(qAppetiteLoss), present(qVomit)), suspect("췌장염", "식욕 저하와 구토가 함께 나타납니다.", domain.ConfidenceMedium)},

	// RESP
	{domain.CategoryRESP, yes(qDyspnea), suspect("폐렴", "호흡 곤란 증상이 있습니다.", domain.ConfidenceHigh)},
	{domain.CategoryRESP, and(often(qCough), yes(qNasalDischarge)), suspect("켄넬코프", "잦은 기침과 콧물이 함께 나타납니다.", domain.ConfidenceHigh)},
	{domain.CategoryRESP, often(qCough), suspect("켄넬코프", "기침이 잦습니다.", domain.ConfidenceMedium)},
	{domain.CategoryRESP, and(yes(qNightCough), yes(qNoHeartworm)), suspect("심장사상충·심장질환", "야간 기침이 있고 심장사상충 예방을 거르고 있습니다.", domain.ConfidenceHigh)},
	{domain.CategoryRESP, yes(qNightCough), suspect("심장사상충·심장질환", "밤에 기침이 심해집니다.", domain.ConfidenceMedium)},
	{domain.CategoryRESP, yes(qNasalDischarge), suspect("비염", "콧물이나 재채기가 늘었습니다.", domain.ConfidenceLow)},

	// SKIN
	{domain.CategorySKIN, and(often(qItch), yes(qRedness)), suspect("알레르기성 피부염", "잦은 가려움과 피부 발적이 있습니다.", domain.ConfidenceHigh)},
	{domain.CategorySKIN, often(qItch), suspect("알레르기성 피부염", "가려움이 잦습니다.", domain.ConfidenceMedium)},
	{domain.CategorySKIN, and(yes(qHairLoss), present(qItch)), suspect("피부사상균증·옴", "가려움과 부분 탈모가 함께 나타납니다.", domain.ConfidenceMedium)},
	{domain.CategorySKIN, yes(qEarOdor), suspect("외이염", "귀 냄새나 머리 털기가 있습니다.", domain.ConfidenceMedium)},
	{domain.CategorySKIN, and(yes(qHairLoss), not(present(qItch))), suspect("호르몬성 탈모", "가려움 없이 털이 빠집니다.", domain.ConfidenceLow)},

	// MSK
	{domain.CategoryMSK, and(often(qLimp), yes(qSenior)), suspect("관절염", "노령견이 자주 다리를 접니다.", domain.ConfidenceHigh)},
	{domain.CategoryMSK, and(yes(qJointSwelling), present(qLimp)), suspect("관절염", "관절 부종과 파행이 함께 나타납니다.", domain.ConfidenceHigh)},
	{domain.CategoryMSK, often(qLimp), suspect("관절염", "다리를 자주 접니다.", domain.ConfidenceMedium)},
	{domain.CategoryMSK, yes(qJointSwelling), suspect("관절염", "관절이 붓거나 통증이 있습니다.", domain.ConfidenceMedium)},
	{domain.CategoryMSK, sometimes(qLimp), suspect("슬개골 탈구", "가끔 다리를 접니다.", domain.ConfidenceLow)},
	{domain.CategoryMSK, yes(qStairs), suspect("추간판 질환", "계단이나 높은 곳 오르기를 꺼립니다.", domain.ConfidenceMedium)},

	// ENDO
	{domain.CategoryENDO, and(often(qThirst), often(qUrination)), suspect("당뇨병", "다음과 다뇨가 함께 나타납니다.", domain.ConfidenceHigh)},
	{domain.CategoryENDO, often(qThirst), suspect("신장 질환", "물을 자주 많이 마십니다.", domain.ConfidenceMedium)},
	{domain.CategoryENDO, and(present(qThirst), yes(qWeightChange)), suspect("쿠싱 증후군", "음수량 증가와 체중 변화가 있습니다.", domain.ConfidenceMedium)},
	{domain.CategoryENDO, and(yes(qWeightChange), yes(qLethargy)), suspect("갑상선 기능 저하증", "체중 변화와 무기력이 함께 나타납니다.", domain.ConfidenceMedium)},
	{domain.CategoryENDO, and(often(qUrination), not(present(qThirst))), suspect("방광염", "음수량 변화 없이 소변이 잦습니다.", domain.ConfidenceLow)},
}
