package domain

import "time"

// Counts are live aggregates over stored registrations, without baselines.
type Counts struct {
	Supporters int `json:"supporters"`
	Youth      int `json:"youth"`
	Businesses int `json:"businesses"`
}

// Metrics is the public view of Counts with baselines applied.
type Metrics struct {
	Supporters   int       `json:"supporters"`
	YouthPlayers int       `json:"youthPlayers"`
	Businesses   int       `json:"businesses"`
	LastUpdated  time.Time `json:"lastUpdated"`
}

// Quote is a public testimonial.
type Quote struct {
	Text string `json:"text"`
	Role string `json:"role"`
}
