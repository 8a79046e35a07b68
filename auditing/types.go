package auditing

// Outcome is the result of handling one notification.
type Outcome string

const (
	// OutcomeLogged means one entry was appended to the log sink.
	OutcomeLogged Outcome = "logged"

	// OutcomeSuppressed means the structure differ found no describable delta.
	OutcomeSuppressed Outcome = "suppressed"

	// OutcomeSkipped means the source document is not monitored.
	OutcomeSkipped Outcome = "skipped"

	// OutcomeBaseline means only the structure snapshot was advanced.
	OutcomeBaseline Outcome = "baseline"

	// OutcomeFailed means the handler failed and nothing was logged.
	OutcomeFailed Outcome = "failed"
)
