package model

// CallAction selects the script template for an outbound voice call.
type CallAction string

const (
	CallActionConfirm  CallAction = "confirm"
	CallActionReminder CallAction = "reminder"
	CallActionCancel   CallAction = "cancel"
	CallActionCallback CallAction = "callback"
)

// ValidForAppointment reports whether the action may be requested against an
// appointment record. Callback is implicit and never supplied by clients.
func (a CallAction) ValidForAppointment() bool {
	switch a {
	case CallActionConfirm, CallActionReminder, CallActionCancel:
		return true
	}
	return false
}

type DispatchAppointmentCallRequest struct {
	AppointmentID string     `json:"appointment_id" binding:"required"`
	Action        CallAction `json:"action" binding:"required"`
}

type DispatchCallbackCallRequest struct {
	CallbackID    string  `json:"callback_id"`
	Name          string  `json:"name"`
	Phone         string  `json:"phone"`
	Email         *string `json:"email,omitempty"`
	Reason        *string `json:"reason,omitempty"`
	PreferredTime *string `json:"preferred_time,omitempty"`
}

type ConfirmCallRequest struct {
	RecordID string `json:"record_id" binding:"required"`
}

type DispatchResult struct {
	CallID  string `json:"call_id"`
	Message string `json:"message"`
}
