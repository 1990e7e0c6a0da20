package proposify

import (
	"fmt"
	"slices"
)

// Event is a provider webhook event type.
type Event string

// Webhook events the provider can deliver.
const (
	EventCommentAdded       Event = "comment.added"
	EventFeeAccepted        Event = "fee.accepted"
	EventFeeDeclined        Event = "fee.declined"
	EventProposalCreated    Event = "proposal.created"
	EventProposalExpired    Event = "proposal.expired"
	EventProposalLost       Event = "proposal.lost"
	EventProposalSent       Event = "proposal.sent"
	EventProposalViewed     Event = "proposal.viewed"
	EventProposalWon        Event = "proposal.won"
	EventProspectCreated    Event = "prospect.created"
	EventSignatureCompleted Event = "signature.completed"
	EventSignatureDeclined  Event = "signature.declined"
)

// DefaultEvent is used when a trigger does not configure one.
const DefaultEvent = EventProposalCreated

var allEvents = []Event{
	EventCommentAdded,
	EventFeeAccepted,
	EventFeeDeclined,
	EventProposalCreated,
	EventProposalExpired,
	EventProposalLost,
	EventProposalSent,
	EventProposalViewed,
	EventProposalWon,
	EventProspectCreated,
	EventSignatureCompleted,
	EventSignatureDeclined,
}

// Events returns every known webhook event.
func Events() []Event {
	return slices.Clone(allEvents)
}

// ParseEvent validates an event name.
func ParseEvent(name string) (Event, error) {
	event := Event(name)
	if slices.Contains(allEvents, event) {
		return event, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownEvent, name)
}

// String implements fmt.Stringer.
func (e Event) String() string {
	return string(e)
}
