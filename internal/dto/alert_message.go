package dto

type AlertMessage struct {
	Body        string `json:"body"`
	Destination string `json:"destination"`
}

// Location is the result of a geolocation lookup.
type Location struct {
	Region string
	City   string
	Lat    float64
	Lon    float64
}

// DispatchResult reports what the alert dispatcher did in one run.
type DispatchResult struct {
	Attempted bool
	Sent      bool
	Message   AlertMessage
}
