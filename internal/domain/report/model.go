package report

// DefaultEffortLevel is used when the user has not picked an effort.
const DefaultEffortLevel = "5"

// Annotation is the subjective context a user adds to an activity.
type Annotation struct {
	Temperature string  `json:"temperature"`
	Weather     Weather `json:"weather"`
	EffortLevel string  `json:"effortLevel"`
	Comments    string  `json:"comments"`
}

// Response is serialized back to API consumers.
type Response struct {
	Title  string `json:"title"`
	Report string `json:"report"`
}
