package entity

// SpeechRecognizeResponse is the SpeechKit synchronous recognition reply.
type SpeechRecognizeResponse struct {
	Result string `json:"result"`
}
