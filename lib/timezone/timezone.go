package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("America/New_York")
	if err != nil {
		panic(err)
	}
}

// force a fixed timezone because session expiry and scrape cooldown
// windows are compared against wall-clock timestamps written by other
// deployments, which may not share the host timezone.
func Now() time.Time {
	return time.Now().In(Location)
}
