package instruments

import (
	"github.com/korjavin/asthmabot/models"
	"github.com/korjavin/asthmabot/scale"
)

// ACT categories, worst first.
var (
	ACTPoorly    = scale.Category{Key: "poorly_controlled", Control: scale.ControlPoor}
	ACTPartially = scale.Category{Key: "partially_controlled", Control: scale.ControlPartial}
	ACTWell      = scale.Category{Key: "well_controlled", Control: scale.ControlWell}
)

// five returns a 1..5 question whose choices run worst to best.
func five(id models.QuestionID, choices ...models.ChoiceID) models.Question {
	q := models.Question{ID: id}
	for i, c := range choices {
		q.Choices = append(q.Choices, models.Choice{ID: c, Points: i + 1})
	}
	return q
}

func newACT() *models.Instrument {
	return &models.Instrument{
		ID: "act",
		Questions: []models.Question{
			five("q1", "all_of_the_time", "most_of_the_time", "some_of_the_time", "a_little_of_the_time", "none_of_the_time"),
			five("q2", "more_than_once_a_day", "once_a_day", "3_to_6_a_week", "once_or_twice_a_week", "not_at_all"),
			five("q3", "4_or_more_nights", "2_to_3_nights", "once_a_week", "once_or_twice", "not_at_all"),
			five("q4", "3_or_more_per_day", "1_or_2_per_day", "2_or_3_per_week", "once_a_week_or_less", "not_at_all"),
			five("q5", "not_controlled", "poorly_controlled", "somewhat_controlled", "well_controlled", "completely_controlled"),
		},
		Scale: scale.Scale{
			Min: 5,
			Max: 25,
			Thresholds: []scale.Threshold{
				{UpTo: 15, Category: ACTPoorly},
				{UpTo: 19, Category: ACTPartially},
			},
			Final: ACTWell,
		},
		Polarity: models.HigherIsBetter,
		Text: map[models.Locale]*models.Strings{
			models.English: actEnglish,
			models.Arabic:  actArabic,
		},
		References: []string{
			"Nathan RA, Sorkness CA, Kosinski M, Schatz M, Li JT, Marcus P, et al. Development of the Asthma Control Test: a Survey for Assessing Asthma Control. J Allergy Clin Immunol. 2004;113(1):59–65.",
			"Schatz M, Sorkness CA, Li JT, Marcus P, Murray JJ, Nathan RA, Kosinski M, Pendergraft TB, Jhingran P. Asthma Control Test: reliability, validity, and responsiveness in patients not previously followed by asthma specialists. J Allergy Clin Immunol. 2006;117:549–56.",
			"Liu AH, Zeiger R, Sorkness C, et al. Development and cross-sectional validation of the Childhood Asthma Control Test. J Allergy Clin Immunol. 2007;119(4):817–825. doi:10.1016/j.jaci.2006.12.662.",
			"Lababidi H, Hijaoui A, Zarzour M. Validation of the Arabic version of the asthma control test. Ann Thorac Med. 2008;3(2):44–47. doi:10.4103/1817-1737.39635.",
		},
	}
}

var actEnglish = &models.Strings{
	Name:        "ACT – English",
	Title:       "Asthma Control Test (ACT) – English",
	Intro:       "Please answer each question based on your symptoms during the last 4 weeks.\nEach answer is scored from 1 to 5; higher total scores indicate better asthma control.",
	Caption:     "Possible score range: 5–25. Higher scores indicate better asthma control.",
	Interpret:   "Interpretation: 5–15 = Poorly controlled, 16–19 = Partially controlled, 20–25 = Well controlled.",
	AxisTitle:   "ACT score (5–25)",
	RefsHeading: "References (ACT)",
	Prompts: map[models.QuestionID]string{
		"q1": "During the last 4 weeks, how much of the time has your asthma kept you from getting as much done at work, school or home?",
		"q2": "During the last 4 weeks, how often have you had shortness of breath?",
		"q3": "During the last 4 weeks, how often have your asthma symptoms (wheezing, coughing, shortness of breath, chest tightness or pain) woken you up at night or earlier than usual in the morning?",
		"q4": "During the last 4 weeks, how often have you used your rescue inhaler or nebuliser medication (such as salbutamol)?",
		"q5": "How would you rate your asthma control during the last 4 weeks?",
	},
	Choices: map[models.QuestionID]map[models.ChoiceID]string{
		"q1": {
			"all_of_the_time":      "All of the time",
			"most_of_the_time":     "Most of the time",
			"some_of_the_time":     "Some of the time",
			"a_little_of_the_time": "A little of the time",
			"none_of_the_time":     "None of the time",
		},
		"q2": {
			"more_than_once_a_day": "More than once a day",
			"once_a_day":           "Once a day",
			"3_to_6_a_week":        "3 to 6 times a week",
			"once_or_twice_a_week": "Once or twice a week",
			"not_at_all":           "Not at all",
		},
		"q3": {
			"4_or_more_nights": "4 or more nights a week",
			"2_to_3_nights":    "2 to 3 nights a week",
			"once_a_week":      "Once a week",
			"once_or_twice":    "Once or twice",
			"not_at_all":       "Not at all",
		},
		"q4": {
			"3_or_more_per_day":   "3 or more times per day",
			"1_or_2_per_day":      "Once or twice per day",
			"2_or_3_per_week":     "2 or 3 times per week",
			"once_a_week_or_less": "Once a week or less",
			"not_at_all":          "Not at all",
		},
		"q5": {
			"not_controlled":        "Not controlled at all",
			"poorly_controlled":     "Poorly controlled",
			"somewhat_controlled":   "Somewhat controlled",
			"well_controlled":       "Well controlled",
			"completely_controlled": "Completely controlled",
		},
	},
	Categories: map[string]string{
		ACTPoorly.Key:    "Poorly controlled",
		ACTPartially.Key: "Partially controlled",
		ACTWell.Key:      "Well controlled",
	},
}

var actArabic = &models.Strings{
	Name:        "ACT – العربية",
	Title:       "اختبار السيطرة على الربو (ACT) – العربية",
	Intro:       "إختبار السيطرة على الربو (من عُمْر 12 سنة فأكثر).\nخلال الأسابيع الأربعة الماضية، يرجى اختيار الإجابة التي تصف حالتك.",
	Caption:     "النطاق الممكن لمجموع النقاط: 5–25. كلما زادت النقاط دلّ ذلك على سيطرة أفضل على الربو.",
	Interpret:   "التفسير: 5–15 = سيطرة ضعيفة، 16–19 = سيطرة جزئية، 20–25 = سيطرة جيدة.",
	AxisTitle:   "مجموع نقاط ACT (5–25)",
	RefsHeading: "المراجع (ACT)",
	Prompts: map[models.QuestionID]string{
		"q1": "خلال الأربعة أسابيع الأخيرة، كم من الوقت منعك مرض الربو من القیام بنشاطك في العمل أو المدرسة أو المنزل؟",
		"q2": "خلال الأربعة أسابيع الماضية، كم مرة حصل لك ضيق نفس؟",
		"q3": "خلال الأربعة أسابيع الماضية، كم مرة أيقظتك أعراض الربو (الصفير، السعال، ضيق تنفس، ضيق صدر أو ألم في الصدر) أثناء الليل أو في الصباح الباكر؟",
		"q4": "خلال الأربعة أسابيع الماضية، كم مرة استخدمت بخاخة الأزمات (موسعات الشعب الهوائية)؟",
		"q5": "خلال الأربعة أسابيع الماضية، ما هو تقييمك للسيطرة على الربو عندك؟",
	},
	Choices: map[models.QuestionID]map[models.ChoiceID]string{
		"q1": {
			"all_of_the_time":      "كل الأوقات",
			"most_of_the_time":     "أغلب الأوقات",
			"some_of_the_time":     "أحياناً",
			"a_little_of_the_time": "أوقات قليلة",
			"none_of_the_time":     "لم يحصل أبداً",
		},
		"q2": {
			"more_than_once_a_day": "أكثر من مرة في اليوم",
			"once_a_day":           "مرة واحدة في اليوم",
			"3_to_6_a_week":        "من 3 إلى 6 مرات في الأسبوع",
			"once_or_twice_a_week": "مرة أو مرتين في الأسبوع",
			"not_at_all":           "لم يحصل أبداً",
		},
		"q3": {
			"4_or_more_nights": "4 ليال أو أكثر في الأسبوع",
			"2_to_3_nights":    "2 إلى 3 مرات في الأسبوع",
			"once_a_week":      "مرة واحدة في الأسبوع",
			"once_or_twice":    "مرة أو مرتين",
			"not_at_all":       "لم يحصل أبداً",
		},
		"q4": {
			"3_or_more_per_day":   "3 مرات أو أكثر في اليوم",
			"1_or_2_per_day":      "مرة واحدة أو مرتين في اليوم",
			"2_or_3_per_week":     "2 أو 3 مرات في الأسبوع",
			"once_a_week_or_less": "مرة واحدة في الأسبوع أو أقل",
			"not_at_all":          "لم يحصل أبداً",
		},
		"q5": {
			"not_controlled":        "تحكّم مفقود",
			"poorly_controlled":     "تحكّم ضعيف",
			"somewhat_controlled":   "تحكّم متواضع",
			"well_controlled":       "تحكّم جيد",
			"completely_controlled": "تحكّم شامل",
		},
	},
	Categories: map[string]string{
		ACTPoorly.Key:    "سيطرة ضعيفة",
		ACTPartially.Key: "سيطرة جزئية",
		ACTWell.Key:      "سيطرة جيدة",
	},
}
