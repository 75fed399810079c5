package call

import (
	"fmt"
	"strings"

	"github.com/carelink/hospital-api/internal/model"
	"github.com/carelink/hospital-api/internal/voice"
)

// buildScript renders the opening line for the given action. Three fixed
// wordings for appointments, one for callbacks.
func buildScript(facility string, rec *model.NormalizedRecord, action model.CallAction) string {
	when := rec.Date
	if rec.Time != "" {
		when = fmt.Sprintf("%s at %s", rec.Date, rec.Time)
	}

	counterpart := ""
	if rec.DoctorName != "" {
		counterpart = fmt.Sprintf(" with Dr. %s", rec.DoctorName)
		if rec.Specialty != "" {
			counterpart += fmt.Sprintf(", %s", rec.Specialty)
		}
	} else if rec.DepartmentName != "" {
		counterpart = fmt.Sprintf(" with our %s department", rec.DepartmentName)
	}

	switch action {
	case model.CallActionConfirm:
		return fmt.Sprintf(
			"Hello %s, this is %s calling about your appointment%s on %s. Could you please confirm whether you will be attending?",
			rec.PatientName, facility, counterpart, when)
	case model.CallActionReminder:
		return fmt.Sprintf(
			"Hello %s, this is a reminder from %s about your upcoming appointment%s on %s. We look forward to seeing you.",
			rec.PatientName, facility, counterpart, when)
	case model.CallActionCancel:
		return fmt.Sprintf(
			"Hello %s, this is %s. We are sorry to inform you that your appointment%s on %s has been cancelled. Please contact us to reschedule.",
			rec.PatientName, facility, counterpart, when)
	default:
		// Callback leads have no appointment yet.
		return fmt.Sprintf(
			"Hello %s, this is %s returning your call request. How can we help you today?",
			rec.PatientName, facility)
	}
}

// buildSystemPrompt pins the agent's behavior: stay on topic, reply in
// whichever of the supported languages the caller uses, and only report a
// confirmation through the confirm tool.
func buildSystemPrompt(facility string, action model.CallAction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a courteous phone assistant for %s, a hospital. ", facility)
	b.WriteString("Keep the conversation short and focused on the purpose of the call. ")
	fmt.Fprintf(&b, "Reply in whichever of these languages the person on the line uses: %s. ",
		strings.Join(voice.Languages, ", "))
	if action == model.CallActionConfirm {
		fmt.Fprintf(&b, "If and only if the patient clearly confirms they will attend, call the %s function. ", voice.ConfirmToolName)
		b.WriteString("Never call it on an unclear or negative answer.")
	}
	return strings.TrimSpace(b.String())
}
