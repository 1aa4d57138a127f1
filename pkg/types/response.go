package types

// StatusSuccess is the status value of every successful mutation response.
const StatusSuccess = "success"

// StatusEnvelope acknowledges a mutation.
type StatusEnvelope struct {
	Status string `json:"status"`
}

// UploadEnvelope is returned by a completed bulk import.
type UploadEnvelope struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
	Rows   any    `json:"rows"`
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}
