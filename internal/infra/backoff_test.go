package infra

import (
	"testing"
	"time"
)

func TestCalculateBackoff(t *testing.T) {
	cases := []struct {
		retry int
		want  time.Duration
	}{
		{0, time.Second},
		{-1, time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},
		{6, 30 * time.Second},
		{100, 30 * time.Second},
	}

	for _, c := range cases {
		if got := CalculateBackoff(c.retry); got != c.want {
			t.Errorf("CalculateBackoff(%d) = %v, want %v", c.retry, got, c.want)
		}
	}
}
