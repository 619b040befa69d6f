package suite

// Phase is the runner's position in the suite lifecycle.
type Phase int32

const (
	PhaseNotStarted Phase = iota
	PhaseSuiteSetup
	PhaseCaseSetup
	PhaseCaseExecuting
	PhaseCaseAsserting
	PhaseCaseTeardown
	PhaseSuiteTeardown
	PhaseDone
)

var phaseNames = map[Phase]string{
	PhaseNotStarted:    "NOT_STARTED",
	PhaseSuiteSetup:    "SUITE_SETUP",
	PhaseCaseSetup:     "CASE_SETUP",
	PhaseCaseExecuting: "CASE_EXECUTING",
	PhaseCaseAsserting: "CASE_ASSERTING",
	PhaseCaseTeardown:  "CASE_TEARDOWN",
	PhaseSuiteTeardown: "SUITE_TEARDOWN",
	PhaseDone:          "DONE",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "UNKNOWN"
}
