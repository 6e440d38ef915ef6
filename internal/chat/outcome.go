package chat

import "fmt"

// OutcomeKind tags the result of one orchestration run.
type OutcomeKind int

const (
	// Success carries a provider reply.
	Success OutcomeKind = iota
	// BothFailed means both providers were configured and both failed.
	BothFailed
	// SingleFailed means exactly one provider was configured and it failed.
	SingleFailed
	// Offline means no provider is configured.
	Offline
	// Unexpected covers any path not anticipated above.
	Unexpected
)

func (k OutcomeKind) String() string {
	switch k {
	case Success:
		return "success"
	case BothFailed:
		return "both_failed"
	case SingleFailed:
		return "single_failed"
	case Offline:
		return "offline"
	default:
		return "unexpected"
	}
}

// Terminal fallback messages shown to visitors when no provider produced a reply.
const (
	BothFailedMessage   = "I'm having trouble connecting to my brain right now (Both AI services failed). Please try again later."
	SingleFailedMessage = "I'm currently experiencing technical difficulties. Please try again later."
	OfflineMessageFmt   = "I'm currently offline (API Keys missing). Please contact %s directly!"
	UnexpectedMessage   = "I encountered a temporary glitch. Please try again."
)

// Outcome is the orchestrator's result. It never carries provider error
// detail; failures are logged where they happen.
type Outcome struct {
	Kind     OutcomeKind
	Reply    string // provider text, set only for Success
	Provider string // provider that answered, set only for Success
	Owner    string // name used in the offline message
}

// Message resolves the outcome to the text shown to the caller.
func (o Outcome) Message() string {
	switch o.Kind {
	case Success:
		return o.Reply
	case BothFailed:
		return BothFailedMessage
	case SingleFailed:
		return SingleFailedMessage
	case Offline:
		return OfflineMessage(o.Owner)
	default:
		return UnexpectedMessage
	}
}

// OfflineMessage renders the offline message for the given owner name.
func OfflineMessage(owner string) string {
	if owner == "" {
		owner = "the site owner"
	}
	return fmt.Sprintf(OfflineMessageFmt, owner)
}
