package bot

const welcomeText = `Welcome to the Asthma Control & Risk Tools!
مرحباً بك في أدوات السيطرة على الربو ومخاطره!

Choose a questionnaire and language below. Answer every question by tapping a button; you can change an earlier answer at any time and the result is recalculated.
اختر الاستبيان واللغة أدناه، ثم أجب عن كل سؤال بالضغط على أحد الأزرار.

Commands:
/start - Choose a questionnaire
/score - Show the result or the questions still unanswered
/reset - Discard the current answers
/help - Show this help`

const helpText = `This bot scores two asthma questionnaires:

ACT (Asthma Control Test): 5 questions scored 1–5, total 5–25. Higher is better.
AIRQ (Asthma Impairment and Risk Questionnaire): 10 yes/no questions, total 0–10. Lower is better.

Answers are kept only while the questionnaire is open and are never stored.

Commands:
/start - Choose a questionnaire
/score - Show the result or the questions still unanswered
/reset - Discard the current answers
/help - Show this help`

const (
	unknownText   = "Unknown command. Use /start to choose a questionnaire or /help for assistance."
	noSessionText = "No questionnaire is open. Use /start to choose one.\nلا يوجد استبيان مفتوح. استخدم /start للاختيار."
	expiredText   = "This questionnaire is no longer open. Use /start to begin again.\nهذا الاستبيان لم يعد مفتوحاً. استخدم /start للبدء من جديد."
	resetText     = "Answers discarded. Use /start to choose a questionnaire.\nتم حذف الإجابات. استخدم /start لاختيار استبيان."
)
