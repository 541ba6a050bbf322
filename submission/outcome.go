package submission

// Outcome reports what happened on each delivery channel of one submission.
// Channels that were not configured stay false.
type Outcome struct {
	CorrelationID string
	EmailSent     bool
	RemoteSent    bool
	AlreadyExists bool
	Errors        []error
}

// Success reports whether the submitter should see a success response: at
// least one configured channel went through. An already-subscribed recipient
// counts as remote success.
func (o Outcome) Success() bool {
	return o.EmailSent || o.RemoteSent || o.AlreadyExists
}
