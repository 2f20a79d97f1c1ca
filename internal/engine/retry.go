package engine

import "sniper_go/internal/domain"

// Retry runs attempt up to n times, stopping at the first confirmed
// result. When every attempt fails the last result is returned; a
// non-confirmed result and a transport error are retried identically.
func Retry(n int, attempt func(i int) domain.TradeResult) domain.TradeResult {
	var last domain.TradeResult
	for i := 0; i < n; i++ {
		last = attempt(i)
		if last.Confirmed {
			return last
		}
	}
	return last
}
