package domain

// FieldNote is a user-submitted field observation. Read-only after creation;
// lifetime is bounded by the serving process (demo storage, no durability).
type FieldNote struct {
	ID   string
	Text string
}
