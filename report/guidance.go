package report

// Safeguards - quick habits which defeat most scams.
var Safeguards = []string{
	"Use a shared safe word with a trusted contact.",
	"Never share 2FA codes, OTPs, or passwords.",
	"Pause: urgent threats push quick decisions.",
	"Check the sender's address; beware lookalike domains.",
	"Type official websites yourself; avoid clicking links.",
	"If unsure, call back using a number you already trust.",
	"Ignore payment via gift cards, crypto, or wire transfers.",
	"Be wary of mixed scripts or odd characters in links.",
	"Keep devices up to date; enable multifactor auth.",
	"Talk to family/caregivers before large decisions.",
}

// NextSteps - shown after every message check, whatever the verdict.
var NextSteps = []string{
	"Never share passwords or codes.",
	"Call the company using their official number.",
	"If unsure, verify with a trusted contact and your safe word.",
}

// DoNots - the checklist printed at the end of every report.
var DoNots = []string{
	"Do not send more money, gift cards, or cryptocurrency.",
	"Do not share passwords, PINs, or one-time codes with anyone who contacts you.",
	"Do not call numbers or open links from the suspicious message.",
	"Do not delete the messages, emails, or receipts. They are evidence.",
}
