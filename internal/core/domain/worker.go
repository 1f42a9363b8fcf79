package domain

type WorkerStatus string

const (
	WorkerStatusAvailable WorkerStatus = "AVAILABLE"
	WorkerStatusBusy      WorkerStatus = "BUSY"
	WorkerStatusBreak     WorkerStatus = "BREAK"
)

// Worker represents one housekeeping staff member. CurrentFloor moves only
// when a room completes; AssignedRooms crossing zero drives the
// available/busy flip, while BREAK is set exclusively by shift management.
type Worker struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	CurrentFloor  int          `json:"current_floor"`
	AssignedRooms int          `json:"assigned_rooms"`
	Status        WorkerStatus `json:"status"`
}

// WorkerSeed is a roster entry used to provision the worker registry at
// startup, either from config or from DefaultRoster.
type WorkerSeed struct {
	ID    string `json:"id" mapstructure:"id"`
	Name  string `json:"name" mapstructure:"name"`
	Floor int    `json:"floor" mapstructure:"floor"`
}

// DefaultRoster is the built-in shift used when config does not provide one.
// It keeps two workers on floor 4 so mid-building checkouts always have a
// same-floor pair to draw from.
func DefaultRoster() []WorkerSeed {
	return []WorkerSeed{
		{ID: "hk-001", Name: "Maria Lopez", Floor: 1},
		{ID: "hk-002", Name: "Chen Wei", Floor: 2},
		{ID: "hk-003", Name: "Amara Diallo", Floor: 3},
		{ID: "hk-004", Name: "Priya Nair", Floor: 4},
		{ID: "hk-005", Name: "Jonas Berg", Floor: 4},
		{ID: "hk-006", Name: "Lucia Romero", Floor: 5},
	}
}
