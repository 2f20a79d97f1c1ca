package infra

import "time"

const (
	backoffBase = time.Second
	backoffMax  = 30 * time.Second
)

// CalculateBackoff returns the reconnect delay for the given retry
// count: exponential from 1s, capped at 30s.
func CalculateBackoff(retry int) time.Duration {
	if retry <= 0 {
		return backoffBase
	}
	if retry > 5 {
		return backoffMax
	}
	delay := backoffBase << uint(retry)
	if delay > backoffMax {
		delay = backoffMax
	}
	return delay
}
