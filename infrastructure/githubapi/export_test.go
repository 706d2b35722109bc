package githubapi

import "time"

// SetClock replaces the time source and sleep function so tests can assert
// rate-limit waits without actually sleeping.
func (c *Client) SetClock(now func() time.Time, sleep func(time.Duration)) {
	c.now = now
	c.sleep = sleep
}
