package wizard

// Step is the wizard screen the applicant is on. Exactly one step is active;
// transitions happen only through the controller operations below.
type Step string

const (
	StepInstructions Step = "instructions"
	StepDetails      Step = "details"
	StepMainForm     Step = "mainForm"
	StepDocuments    Step = "documents"
	StepDeclaration  Step = "declaration"
	StepLoading      Step = "loading"
	StepEvents       Step = "events"
)

// forward is the single transition table driving the whole wizard. The
// details -> mainForm edge additionally requires a verified OTP, and the
// declaration -> loading -> events edges happen inside submission.
var forward = map[Step]Step{
	StepInstructions: StepDetails,
	StepDetails:      StepMainForm,
	StepMainForm:     StepDocuments,
	StepDocuments:    StepDeclaration,
	StepDeclaration:  StepLoading,
	StepLoading:      StepEvents,
}

// Valid reports whether s names a known step.
func (s Step) Valid() bool {
	switch s {
	case StepInstructions, StepDetails, StepMainForm, StepDocuments,
		StepDeclaration, StepLoading, StepEvents:
		return true
	}
	return false
}
