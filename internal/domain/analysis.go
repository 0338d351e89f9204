package domain

// ImageAnalysis is the normalized result of one vision API call. Missing
// feature results are empty slices, never nil fields leaking into callers.
type ImageAnalysis struct {
	Objects  []DetectedObject `json:"objects"`
	Tags     []Tag            `json:"tags"`
	Captions []Caption        `json:"captions"`
}

// DetectedObject is one recognized object with its bounding box
type DetectedObject struct {
	Object     string    `json:"object"`
	Confidence float64   `json:"confidence"`
	Rectangle  Rectangle `json:"rectangle"`
}

// Rectangle is a bounding box in image coordinates
type Rectangle struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Tag is one image classification label
type Tag struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// Caption is one generated image description
type Caption struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// SolutionPriority is the urgency bucket of a repair recommendation
type SolutionPriority string

const (
	PriorityLow    SolutionPriority = "low"
	PriorityMedium SolutionPriority = "medium"
	PriorityHigh   SolutionPriority = "high"
)

// Solution is a structured repair recommendation parsed out of generated
// free text
type Solution struct {
	Title           string           `json:"title"`
	Priority        SolutionPriority `json:"priority"`
	Description     string           `json:"description"`
	EstimatedCost   string           `json:"estimated_cost,omitempty"`
	EstimatedTime   string           `json:"estimated_time,omitempty"`
	ResourcesNeeded []string         `json:"resources_needed"`
}

// Disaster is one declaration from the public disaster-declarations feed
type Disaster struct {
	Title           string `json:"title"`
	State           string `json:"state"`
	County          string `json:"county,omitempty"`
	DeclarationDate string `json:"declaration_date"`
	IncidentType    string `json:"incident_type"`
	DisasterNumber  int    `json:"disaster_number"`
	FYDeclared      int    `json:"fy_declared"`
}
