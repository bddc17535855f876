package agent

// Locale carries the user-facing strings for one language. Internal error
// detail never reaches the chat transport; these are the only texts the bot
// sends on its own behalf.
type Locale struct {
	// NotePrefix labels a saved note.
	NotePrefix string
	// ExpensePrefix labels a saved expense entry.
	ExpensePrefix string
	// InferredMarker is appended when a note was inferred from free text
	// instead of an extracted memo.
	InferredMarker string
	// CurrencyUnit and labels for the expense rendering.
	CurrencyUnit  string
	CategoryLabel string
	DateLabel     string

	Greeting         string
	ReadingImage     string
	Sorry            string
	SorryMessageType string
	NotAuthorized    string
}

// Thai is the default locale, matching the deployed bot.
func Thai() *Locale {
	return &Locale{
		NotePrefix:       "บันทึกโน้ต: ",
		ExpensePrefix:    "บันทึกค่าใช้จ่าย: ",
		InferredMarker:   "(M)",
		CurrencyUnit:     "บาท",
		CategoryLabel:    "ประเภท:",
		DateLabel:        "วันที่:",
		Greeting:         "เริ่ม",
		ReadingImage:     "กำลังอ่านรูป",
		Sorry:            "ขอโทษด้วยค่ะ ฉันไม่เข้าใจที่คุณพิมพ์มา",
		SorryMessageType: "ขอโทษด้วยค่ะ ฉันไม่เข้าใจประเภทข้อความนี้ ตอนนี้ฉันสามารถเข้าใจแค่ข้อความและรูปภาพค่ะ",
		NotAuthorized:    "You are not authorized to use this bot",
	}
}

// English exists for local development; the deployed bot speaks Thai.
func English() *Locale {
	return &Locale{
		NotePrefix:       "Saved note: ",
		ExpensePrefix:    "Saved expense: ",
		InferredMarker:   "(M)",
		CurrencyUnit:     "THB",
		CategoryLabel:    "category:",
		DateLabel:        "date:",
		Greeting:         "Hello",
		ReadingImage:     "Reading the image",
		Sorry:            "Sorry, I could not understand that",
		SorryMessageType: "Sorry, I only understand text and photos for now",
		NotAuthorized:    "You are not authorized to use this bot",
	}
}

// ForLanguage resolves a language code, defaulting to Thai.
func ForLanguage(code string) *Locale {
	switch code {
	case "en":
		return English()
	default:
		return Thai()
	}
}
