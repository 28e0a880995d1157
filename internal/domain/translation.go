package domain

// TranslationStatus is the vendor's answer to a job status query.
type TranslationStatus struct {
	ErrorCode    string `json:"errorCode"`
	Status       int    `json:"status"`
	StatusString string `json:"statusString"`
}

// OK reports whether the vendor accepted the query.
func (s *TranslationStatus) OK() bool {
	return s.ErrorCode == "0"
}

// StatusText maps a vendor job status code to its display text.
func StatusText(code int) string {
	switch code {
	case 1:
		return "Uploading"
	case 2:
		return "Converting"
	case 3:
		return "Translating"
	case 4:
		return "Completed"
	case 5:
		return "Generating"
	case -1:
		return "Upload failed"
	case -2:
		return "Conversion failed"
	case -3, -10:
		return "Translation failed"
	case -4:
		return "Cancelled"
	case -5:
		return "Generation failed"
	case -11:
		return "File deleted"
	default:
		return "Unknown"
	}
}

type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// SupportedLanguages lists the languages offered to the document UI, in display order.
var SupportedLanguages = []Language{
	{Code: "zh-CHS", Name: "Chinese"},
	{Code: "en", Name: "English"},
	{Code: "ja", Name: "Japanese"},
	{Code: "ko", Name: "Korean"},
	{Code: "ru", Name: "Russian"},
	{Code: "fr", Name: "French"},
	{Code: "es", Name: "Spanish"},
	{Code: "pt", Name: "Portuguese"},
	{Code: "de", Name: "German"},
	{Code: "it", Name: "Italian"},
	{Code: "th", Name: "Thai"},
	{Code: "vi", Name: "Vietnamese"},
	{Code: "id", Name: "Indonesian"},
	{Code: "ar", Name: "Arabic"},
	{Code: "nl", Name: "Dutch"},
	{Code: "hi", Name: "Hindi"},
}
