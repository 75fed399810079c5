// Package voice integrates the external AI voice-call provider. The provider
// is treated as opaque: this package builds the call payload and reports the
// outcome, nothing more.
package voice

import "context"

// Languages the agent is allowed to reply in. The system prompt instructs it
// to mirror whichever of these the person on the line uses.
var Languages = []string{"English", "Hindi", "Tamil"}

// ConfirmToolName is the function the agent may invoke once the patient
// verbally confirms. The provider calls our webhook with the record id.
const ConfirmToolName = "confirm_appointment"

type CallRequest struct {
	// Phone is the unmasked destination number. It goes only to the
	// provider, never to a log or audit entry.
	Phone        string
	FirstMessage string
	SystemPrompt string
	// RecordID is carried by the confirm tool so the provider can report
	// back which record the patient confirmed.
	RecordID string
}

type CallResult struct {
	ID     string
	Status string
}

type Caller interface {
	PlaceCall(ctx context.Context, req CallRequest) (*CallResult, error)
}
