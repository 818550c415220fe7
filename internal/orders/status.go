package orders

// Status is an order's lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// validNext encodes the lifecycle: pending -> preparing -> ready -> completed,
// with cancellation possible while the order is still pending or preparing.
// completed and cancelled are terminal.
var validNext = map[Status]map[Status]bool{
	StatusPending:   {StatusPreparing: true, StatusCancelled: true},
	StatusPreparing: {StatusReady: true, StatusCancelled: true},
	StatusReady:     {StatusCompleted: true},
	StatusCompleted: {},
	StatusCancelled: {},
}

// CanTransition reports whether from -> to is a legal lifecycle step.
func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

// TransitionSources returns the states a given target may be reached from,
// in lifecycle order. Used to build the conditional update guard.
func TransitionSources(to Status) []Status {
	var out []Status
	for _, from := range []Status{StatusPending, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled} {
		if validNext[from][to] {
			out = append(out, from)
		}
	}
	return out
}

// Terminal reports whether no further transition is permitted.
func (s Status) Terminal() bool {
	return len(validNext[s]) == 0 && s.Valid()
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := validNext[s]
	return ok
}

// Active reports whether the order still counts toward pending revenue.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusPreparing || s == StatusReady
}
