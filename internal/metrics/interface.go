package metrics

import "time"

// Recorder receives the outcome of every poll cycle.
type Recorder interface {
	// ObserveCycle records how long a cycle took, how many complete
	// sensors it presented and the enumeration error, if any.
	ObserveCycle(d time.Duration, sensors int, err error)
}
