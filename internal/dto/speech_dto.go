package dto

type SpeechToTextResponse struct {
	RecognizedText string `json:"recognized_text"`
}
