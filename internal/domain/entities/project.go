package entities

// Project identifies one tracked artifact: a human-readable name and the
// record id it is filed under in the tracking service.
type Project struct {
	Name      string
	TrackerID string
}
