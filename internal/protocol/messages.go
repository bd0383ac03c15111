package protocol

import "toystore/internal/toys"

// DRAW (client -> server)
type DrawMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version,omitempty"`
	N               int    `json:"n"`
	RequestID       string `json:"request_id,omitempty"`
}

// DRAWS (server -> client)
type DrawsMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	RequestID       string `json:"request_id,omitempty"`
	IDs             []int  `json:"ids"`
}

// ERROR (server -> client)
type ErrorMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	RequestID       string `json:"request_id,omitempty"`
	Code            string `json:"code"`
	Message         string `json:"message"`
}

// ToysResponse is the body of GET /v1/toys.
type ToysResponse struct {
	ProtocolVersion string     `json:"protocol_version"`
	Capacity        int        `json:"capacity"`
	Pool            []toys.Toy `json:"pool"`
	Records         []toys.Toy `json:"records"`
	ByWeight        []toys.Toy `json:"by_weight"`
}

// NewError builds an ERROR reply. Codes outside the known set are reported
// as E_INTERNAL.
func NewError(requestID, code, message string) ErrorMsg {
	if code == "" || !IsKnownCode(code) {
		code = ErrInternal
	}
	return ErrorMsg{
		Type:            TypeError,
		ProtocolVersion: Version,
		RequestID:       requestID,
		Code:            code,
		Message:         message,
	}
}
