package render

// ErrorView is the error panel contents. Message is shown as-is.
type ErrorView struct {
	Label   string `json:"label"`
	Message string `json:"message"`
}

// Failure builds the error panel for a message.
func Failure(message string) ErrorView {
	return ErrorView{Label: "Error:", Message: message}
}

// Text is the single line shown in the panel.
func (v ErrorView) Text() string {
	return v.Label + " " + v.Message
}
