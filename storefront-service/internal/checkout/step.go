package checkout

type Step string

const (
	StepReview     Step = "review"
	StepDetails    Step = "details"
	StepPayment    Step = "payment"
	StepProcessing Step = "processing"
	StepSuccess    Step = "success"
)

type Event string

const (
	EventProceed Event = "proceed"
	EventBack    Event = "back"
	EventSubmit  Event = "submit"
	EventSucceed Event = "succeed"
	EventFail    Event = "fail"
)

// transitions lists every legal (step, event) pair. Anything missing is illegal.
var transitions = map[Step]map[Event]Step{
	StepReview: {
		EventProceed: StepDetails,
	},
	StepDetails: {
		EventProceed: StepPayment,
		EventBack:    StepReview,
	},
	StepPayment: {
		EventSubmit: StepProcessing,
		EventBack:   StepDetails,
	},
	StepProcessing: {
		EventSucceed: StepSuccess,
		EventFail:    StepPayment,
	},
	StepSuccess: {},
}

// Next returns the step reached from s on e.
func Next(s Step, e Event) (Step, bool) {
	to, ok := transitions[s][e]
	return to, ok
}

// IsTerminal reports whether no further transition exists.
func (s Step) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// String representation (for logging)
func (s Step) String() string {
	return string(s)
}
