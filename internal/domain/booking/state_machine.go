package booking

// allowedTransitions is the explicit transition table for the booking state
// machine. A transition is legal only if listed; terminal states list nothing.
var allowedTransitions = map[Status][]Status{
	StatusRequested: {StatusApproved, StatusCancelled, StatusCompleted},
	StatusApproved:  {StatusCancelled, StatusCompleted},
	StatusCancelled: {},
	StatusCompleted: {},
}

// CanTransition reports whether from -> to is a legal transition.
// Same-state "transitions" are allowed as no-ops.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	allowed, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}
