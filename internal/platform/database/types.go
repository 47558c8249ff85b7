package database

import "time"

// Settings holds the mutable bot settings kept in the database, as opposed to
// the environment-sourced startup configuration.
type Settings struct {
	LogLevel string `json:"logLevel"` // overrides the env log level when set
}

// UserStats is the lifetime download tally for one user. It feeds the /stats
// command; it is not consulted by the rate limiter, which keeps its sliding
// window in memory only.
type UserStats struct {
	Downloads  int       `json:"downloads"`
	Bytes      int64     `json:"bytes"`
	LastFormat string    `json:"lastFormat"`
	LastAt     time.Time `json:"lastAt"`
}
