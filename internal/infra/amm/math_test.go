package amm

import "testing"

func TestComputeAmountOut(t *testing.T) {
	// 1000 in, equal reserves of 1M. After the 25 bps fee the input is
	// 997 (floor), so out = 1000000*997 / (1000000+997) = 996.
	out := ComputeAmountOut(1000, 1_000_000, 1_000_000)
	if out != 996 {
		t.Errorf("expected 996, got %d", out)
	}
}

func TestComputeAmountOut_EmptyReserves(t *testing.T) {
	if out := ComputeAmountOut(1000, 0, 1_000_000); out != 0 {
		t.Errorf("expected 0 with empty input reserve, got %d", out)
	}
	if out := ComputeAmountOut(1000, 1_000_000, 0); out != 0 {
		t.Errorf("expected 0 with empty output reserve, got %d", out)
	}
}

func TestComputeAmountOut_NoUint64Overflow(t *testing.T) {
	const max = ^uint64(0)
	out := ComputeAmountOut(max, max, max)
	if out > max {
		t.Errorf("output overflowed: %d", out)
	}
}

func TestMinAmountOut(t *testing.T) {
	out := ComputeAmountOut(1000, 1_000_000, 1_000_000)

	// 20% tolerance knocks a fifth off the quoted output.
	bounded := MinAmountOut(1000, 1_000_000, 1_000_000, 2000)
	want := out * 8000 / 10000
	if bounded != want {
		t.Errorf("expected %d, got %d", want, bounded)
	}
}

func TestMinAmountOut_ZeroSlippage(t *testing.T) {
	out := ComputeAmountOut(1000, 1_000_000, 1_000_000)
	if got := MinAmountOut(1000, 1_000_000, 1_000_000, 0); got != out {
		t.Errorf("expected unbounded output %d, got %d", out, got)
	}
}

func TestMinAmountOut_FullSlippage(t *testing.T) {
	if got := MinAmountOut(1000, 1_000_000, 1_000_000, 10000); got != 0 {
		t.Errorf("expected 0 at 100%% slippage, got %d", got)
	}
}
