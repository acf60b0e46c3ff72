package dto

// Envelope is the uniform success response body.
type Envelope struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorEnvelope is the uniform failure response body.
type ErrorEnvelope struct {
	Status  bool     `json:"status"`
	Message string   `json:"message"`
	Code    string   `json:"code"`
	Errors  []string `json:"errors,omitempty"`
}

// ListEnvelope is the success body for paginated listings.
type ListEnvelope struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
	Page    int    `json:"page"`
	Limit   int    `json:"limit"`
	Count   int    `json:"count"`
}

// Success wraps data in an Envelope.
func Success(message string, data any) Envelope {
	return Envelope{Status: true, Message: message, Data: data}
}

// Failure builds an ErrorEnvelope.
func Failure(code, message string, errs ...string) ErrorEnvelope {
	return ErrorEnvelope{Status: false, Message: message, Code: code, Errors: errs}
}
