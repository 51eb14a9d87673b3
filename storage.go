package semaphore

// DispatchRepository persists a record of every message handed to the gateway.
type DispatchRepository interface {
	GetRecent(limit int) ([]Dispatch, error)

	Create(dispatch *Dispatch) error
}
