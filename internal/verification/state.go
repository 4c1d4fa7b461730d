package verification

type State int

const (
	Idle State = iota
	Sending
	AwaitingCode
	Verifying
	Verified
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Sending:
		return "sending"
	case AwaitingCode:
		return "awaiting_code"
	case Verifying:
		return "verifying"
	case Verified:
		return "verified"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// HoldsHandle reports whether a confirmation handle must be present in s.
func (s State) HoldsHandle() bool {
	return s == AwaitingCode || s == Verifying || s == Verified
}

// busy states have a provider call in flight.
func (s State) busy() bool {
	return s == Sending || s == Verifying
}

// Reset to Idle is allowed from every state and is not listed here.
var transitions = map[State]map[State]bool{
	Idle:         {Sending: true},
	Failed:       {Sending: true},
	Sending:      {AwaitingCode: true, Failed: true},
	AwaitingCode: {Verifying: true},
	Verifying:    {Verified: true, Failed: true},
	Verified:     {},
}

func canTransition(from, to State) bool {
	if to == Idle {
		return true
	}
	return transitions[from][to]
}
