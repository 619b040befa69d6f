package suite

// Listener receives progress notifications while a suite runs.
type Listener interface {
	SuiteStarted(result *Result)
	CaseStarted(c *Case)
	CaseFinished(result *CaseResult)
	SuiteFinished(result *Result)
}

// NopListener ignores every notification.
type NopListener struct{}

var _ Listener = NopListener{}

func (NopListener) SuiteStarted(*Result) {}
func (NopListener) CaseStarted(*Case) {}
func (NopListener) CaseFinished(*CaseResult) {}
func (NopListener) SuiteFinished(*Result) {}
