package types

// Envelope is the standard wrapper for every API response, success or error.
type Envelope struct {
	StatusCode int    `json:"statusCode"`
	OK         bool   `json:"ok"`
	Message    string `json:"message"`
	Data       any    `json:"data,omitempty"`
}

// ErrorData is the payload carried by error envelopes.
type ErrorData struct {
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}
