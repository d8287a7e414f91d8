package domain

// RequestStatus represents the lifecycle state of a delivery request.
type RequestStatus string

const (
	RequestStatusOpen       RequestStatus = "OPEN"
	RequestStatusInProgress RequestStatus = "IN_PROGRESS"
	RequestStatusDone       RequestStatus = "DONE"
)

func (s RequestStatus) String() string { return string(s) }

func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusOpen, RequestStatusInProgress, RequestStatusDone:
		return true
	}
	return false
}

// IsTerminal reports whether no transition leaves this status.
func (s RequestStatus) IsTerminal() bool { return s == RequestStatusDone }

// allowedTransitions is the full edge set of the request state machine.
// Anything absent here is rejected, including every edge out of DONE.
var allowedTransitions = map[RequestStatus][]RequestStatus{
	RequestStatusOpen:       {RequestStatusInProgress},
	RequestStatusInProgress: {RequestStatusOpen, RequestStatusDone},
	RequestStatusDone:       {},
}

// CanTransitionTo reports whether the state machine permits s → target.
// A self-transition is not an edge; callers treat "same status" as no change.
func (s RequestStatus) CanTransitionTo(target RequestStatus) bool {
	for _, next := range allowedTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// HistoryEventType identifies the kind of event recorded in request history.
type HistoryEventType string

const (
	HistoryEventCreated       HistoryEventType = "CREATED"
	HistoryEventStatusChanged HistoryEventType = "STATUS_CHANGED"
	HistoryEventUpdated       HistoryEventType = "UPDATED"
)

func (e HistoryEventType) String() string { return string(e) }

func (e HistoryEventType) IsValid() bool {
	switch e {
	case HistoryEventCreated, HistoryEventStatusChanged, HistoryEventUpdated:
		return true
	}
	return false
}

// ActorType identifies who performed a request mutation.
type ActorType string

const (
	ActorTypeClient  ActorType = "client"
	ActorTypeManager ActorType = "manager"
)

func (a ActorType) String() string { return string(a) }

func (a ActorType) IsValid() bool {
	switch a {
	case ActorTypeClient, ActorTypeManager:
		return true
	}
	return false
}

// ManagerRole represents the authorization level of a manager account.
// Role distinctions beyond "manager" are not subdivided further; admin
// exists so the first bootstrapped account is identifiable.
type ManagerRole string

const (
	ManagerRoleManager ManagerRole = "manager"
	ManagerRoleAdmin   ManagerRole = "admin"
)

func (r ManagerRole) String() string { return string(r) }

func (r ManagerRole) IsValid() bool {
	switch r {
	case ManagerRoleManager, ManagerRoleAdmin:
		return true
	}
	return false
}
