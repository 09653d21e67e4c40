package dto

import "encoding/json"

// NullableString distinguishes an explicitly-null JSON field from an
// omitted one. Set is false when the key was absent from the payload;
// Value is nil when the key carried an explicit null.
type NullableString struct {
	Set   bool
	Value *string
}

// UnmarshalJSON records presence before decoding the value.
func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	return json.Unmarshal(data, &n.Value)
}

// MessagePayload describes one conversation entry to append.
type MessagePayload struct {
	Text   string `json:"text"`
	Sender string `json:"sender"`
}

// UpdateTicketRequest bundles the optional mutation intents of a partial
// ticket update. At least one must be present; assignee accepts an
// explicit null to clear the current owner.
type UpdateTicketRequest struct {
	Status   *string         `json:"status"`
	Assignee NullableString  `json:"assignee"`
	Note     *string         `json:"note"`
	Message  *MessagePayload `json:"message"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse payload.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}
