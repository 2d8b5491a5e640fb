package report

import (
	"log"
	"time"

	"github.com/segmentio/ksuid"
)

// newId - a sortable reference id whose timestamp matches the report's creation time, so a caseworker can tell
// when a quoted reference was generated.
func newId(at time.Time) string {
	// There's technically a chance of collisions with ksuid, but as it helpfully explains, it's
	// infeasible to do so within the current limitations of physics.
	id, err := ksuid.NewRandomWithTime(at)
	if err != nil {
		// "should never happen" (only fails if the system random source does)
		log.Printf("[report] Falling back to a current-time id: %v", err)
		return ksuid.New().String()
	}
	return id.String()
}
