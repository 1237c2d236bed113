package instruments

import (
	"github.com/korjavin/asthmabot/models"
	"github.com/korjavin/asthmabot/scale"
)

// AIRQ categories, worst first. The worst band is worded "Very poorly
// controlled" in every locale.
var (
	AIRQVeryPoorly = scale.Category{Key: "very_poorly_controlled", Control: scale.ControlPoor}
	AIRQNotWell    = scale.Category{Key: "not_well_controlled", Control: scale.ControlPartial}
	AIRQWell       = scale.Category{Key: "well_controlled", Control: scale.ControlWell}
)

const (
	sectionTwoWeeksSymptoms = "two_weeks_symptoms"
	sectionTwoWeeks         = "two_weeks"
	sectionTwelveMonths     = "twelve_months"
)

// yesNo returns a question where "yes" scores one point.
func yesNo(id models.QuestionID, section string) models.Question {
	return models.Question{
		ID:      id,
		Section: section,
		Choices: []models.Choice{{ID: "no", Points: 0}, {ID: "yes", Points: 1}},
	}
}

func newAIRQ() *models.Instrument {
	return &models.Instrument{
		ID: "airq",
		Questions: []models.Question{
			yesNo("q1", sectionTwoWeeksSymptoms),
			yesNo("q2", sectionTwoWeeksSymptoms),
			yesNo("q3", sectionTwoWeeksSymptoms),
			yesNo("q4", sectionTwoWeeksSymptoms),
			yesNo("q5", sectionTwoWeeks),
			yesNo("q6", sectionTwoWeeks),
			yesNo("q7", sectionTwoWeeks),
			yesNo("q8", sectionTwelveMonths),
			yesNo("q9", sectionTwelveMonths),
			yesNo("q10", sectionTwelveMonths),
		},
		Scale: scale.Scale{
			Min: 0,
			Max: 10,
			Thresholds: []scale.Threshold{
				{UpTo: 1, Category: AIRQWell},
				{UpTo: 4, Category: AIRQNotWell},
			},
			Final: AIRQVeryPoorly,
		},
		Polarity: models.LowerIsBetter,
		Text: map[models.Locale]*models.Strings{
			models.English: airqEnglish,
			models.Arabic:  airqArabic,
		},
		References: []string{
			"Murphy KR, Chipps B, Beuther DA, et al. Development of the asthma impairment and risk questionnaire (AIRQ): a composite control measure. J Allergy Clin Immunol Pract. 2020;8(7):2263–2274.e5.",
			"Reibman J, Chipps BE, Zeiger RS, et al. Relationship between asthma control as measured by the Asthma Impairment and Risk Questionnaire (AIRQ) and patient perception of disease status, health-related quality of life, and treatment adherence. J Asthma Allergy. 2023;16:59–72.",
		},
	}
}

// yesNoLabels repeats the same pair of labels for every question id.
func yesNoLabels(no, yes string, n int) map[models.QuestionID]map[models.ChoiceID]string {
	out := make(map[models.QuestionID]map[models.ChoiceID]string, n)
	for i := 1; i <= n; i++ {
		out[questionID(i)] = map[models.ChoiceID]string{"no": no, "yes": yes}
	}
	return out
}

var airqEnglish = &models.Strings{
	Name:        "AIRQ – English",
	Title:       "Asthma Impairment and Risk Questionnaire (AIRQ™) – English",
	Intro:       "For each question, please select Yes or No.\nEach Yes = 1 point, No = 0 points.\nTotal AIRQ score = 0–10.",
	Caption:     "Possible score range: 0–10. Lower scores indicate better asthma control.",
	Interpret:   "Interpretation: 0–1 = Well controlled, 2–4 = Not well controlled, 5–10 = Very poorly controlled.",
	AxisTitle:   "AIRQ score (0–10)",
	RefsHeading: "References (AIRQ)",
	Sections: map[string]string{
		sectionTwoWeeksSymptoms: "In the past 2 weeks, has coughing, wheezing, shortness of breath, or chest tightness:",
		sectionTwoWeeks:         "In the past 2 weeks:",
		sectionTwelveMonths:     "In the past 12 months, has coughing, wheezing, shortness of breath, or chest tightness:",
	},
	Prompts: map[models.QuestionID]string{
		"q1":  "Bothered you during the day on more than 4 days?",
		"q2":  "Woken you up from sleep more than 1 time?",
		"q3":  "Limited the activities you want to do every day?",
		"q4":  "Caused you to use your rescue inhaler or nebulizer every day?",
		"q5":  "Did you have to limit your social activities (such as visiting with friends/relatives or playing with pets/children) because of your asthma?",
		"q6":  "Did coughing, wheezing, shortness of breath, or chest tightness limit your ability to exercise?",
		"q7":  "Did you feel that it was difficult to control your asthma?",
		"q8":  "Caused you to take steroid pills or shots, such as prednisone or methylprednisolone?",
		"q9":  "Caused you to go to the emergency room or have unplanned visits to a health care provider?",
		"q10": "Caused you to stay in the hospital overnight?",
	},
	Choices: yesNoLabels("No", "Yes", 10),
	Categories: map[string]string{
		AIRQWell.Key:       "Well controlled",
		AIRQNotWell.Key:    "Not well controlled",
		AIRQVeryPoorly.Key: "Very poorly controlled",
	},
}

var airqArabic = &models.Strings{
	Name:        "AIRQ – العربية",
	Title:       "استبيان اعتلال ومخاطر الربو (AIRQ) – العربية",
	Intro:       "للاستخدام من قبل مقدمي الرعاية الصحية لمرضاهم الذين تبلغ أعمارهم ١٢ عامًا فأكثر والذين شُخِّصوا بالربو.\nيُرجى الإجابة على كافة الأسئلة أدناه (نعم / لا).\nكل إجابة نعم = 1 نقطة، و لا = 0. المجموع من 0 إلى 10.",
	Caption:     "النطاق الممكن لمجموع النقاط: 0–10. كلما قلّت النقاط دلّ ذلك على سيطرة أفضل على الربو.",
	Interpret:   "التفسير: 0–1 = سيطرة جيدة، 2–4 = سيطرة غير جيدة، 5–10 = سيطرة ضعيفة جدًا.",
	AxisTitle:   "مجموع نقاط AIRQ (0–10)",
	RefsHeading: "المراجع (AIRQ)",
	Sections: map[string]string{
		sectionTwoWeeksSymptoms: "في خلال الأسبوعين الماضيين، هل كان السعال، أو صوت الصفير عند التنفس، أو ضيق التنفس، أو الضيق في الصدر:",
		sectionTwoWeeks:         "في آخر أسبوعين:",
		sectionTwelveMonths:     "في الأشهر الاثني عشر (12) الماضية، هل كان السعال أو الأزيز أو ضيق التنفس أو ضيق الصدر:",
	},
	Prompts: map[models.QuestionID]string{
		"q1":  "هل أزعجتك خلال اليوم لأكثر من 4 أيام؟",
		"q2":  "هل أيقظك من النوم أكثر من مرة؟",
		"q3":  "هل قلّصت الأنشطة التي تريد القيام بها كل يوم؟",
		"q4":  "هل تسبّب في استخدامك لجهاز الاستنشاق أو البخاخة كل يوم؟",
		"q5":  "هل اضطررت للحد من أنشطتك الاجتماعية (مثل زيارة الأصدقاء/الأقارب أو اللعب مع الحيوانات الأليفة/الأطفال) بسبب الربو؟",
		"q6":  "هل حدّ السعال أو الأزيز أو ضيق التنفس أو ضيق الصدر من قدرتك على ممارسة الرياضة؟",
		"q7":  "هل شعرتَ بصعوبة في السيطرة على الربو؟",
		"q8":  "هل تسبب في تناولك حبوبًا أو حقنًا كورتيزون؟",
		"q9":  "هل تسبب في ذهابك إلى قسم الطوارئ أو زيارات غير مخطط لها لمقدم الرعاية الصحية؟",
		"q10": "هل تسبب في مكوثك في المستشفى طوال الليل؟",
	},
	Choices: yesNoLabels("لا", "نعم", 10),
	Categories: map[string]string{
		AIRQWell.Key:       "سيطرة جيدة",
		AIRQNotWell.Key:    "سيطرة غير جيدة",
		AIRQVeryPoorly.Key: "سيطرة ضعيفة جدًا",
	},
}
