package activity

// TypeKeyRunning is the activity type key that makes an item selectable in the list flow.
const TypeKeyRunning = "running"

const (
	// DefaultListSize is the number of recent activities requested by the list flow.
	DefaultListSize = 5
	// MaxListSize bounds the num query parameter forwarded upstream.
	MaxListSize = 50
)

// Activity is one recorded exercise session as returned by the remote activity service.
// Optional metrics are pointers so an absent field stays distinguishable from zero.
type Activity struct {
	ActivityID     int64    `json:"activityId"`
	ActivityName   string   `json:"activityName"`
	ActivityType   Type     `json:"activityType"`
	StartTimeLocal string   `json:"startTimeLocal"`
	StartTimeGMT   string   `json:"startTimeGMT,omitempty"`
	Distance       float64  `json:"distance"`
	Duration       float64  `json:"duration"`
	AverageHR      *float64 `json:"averageHR,omitempty"`
	AverageSpeed   *float64 `json:"averageSpeed,omitempty"`
	ElevationGain  *float64 `json:"elevationGain,omitempty"`
	Calories       float64  `json:"calories,omitempty"`
	Steps          int64    `json:"steps,omitempty"`
}

// Type classifies an activity.
type Type struct {
	TypeID       int64  `json:"typeId"`
	TypeKey      string `json:"typeKey"`
	ParentTypeID int64  `json:"parentTypeId,omitempty"`
}

// IsRun reports whether the activity is a run.
func (a Activity) IsRun() bool {
	return a.ActivityType.TypeKey == TypeKeyRunning
}

// Item is a list entry annotated with whether it can be opened for reporting.
type Item struct {
	Activity   Activity `json:"activity"`
	Selectable bool     `json:"selectable"`
}

// State is the per-session view state: the last fetched list and the activity picked for reporting.
type State struct {
	Activities []Activity `json:"activities"`
	Selected   *Activity  `json:"selected,omitempty"`
}
