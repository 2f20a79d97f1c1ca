package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"sniper_go/internal/cache"
	"sniper_go/internal/domain"

	"github.com/gagliardetto/solana-go"
)

type fakeAccountReader struct {
	data []byte
	err  error
}

func (f *fakeAccountReader) AccountData(ctx context.Context, account solana.PublicKey) ([]byte, error) {
	return f.data, f.err
}

// metadataRecord builds the head of a token metadata account: a key byte
// followed by the 32-byte update authority.
func metadataRecord(authority solana.PublicKey) []byte {
	data := make([]byte, 33)
	data[0] = 4
	copy(data[1:33], authority.Bytes())
	return data
}

func TestDispatcher_UpdateAuthorityCheck(t *testing.T) {
	authority := solana.NewWallet().PublicKey()
	other := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()

	cases := []struct {
		name   string
		reader *fakeAccountReader
		want   bool
	}{
		{"matching authority", &fakeAccountReader{data: metadataRecord(authority)}, true},
		{"mismatched authority", &fakeAccountReader{data: metadataRecord(other)}, false},
		{"truncated metadata", &fakeAccountReader{data: []byte{4, 1, 2}}, false},
		{"missing account", &fakeAccountReader{data: nil}, false},
		{"fetch failure", &fakeAccountReader{err: errors.New("rpc down")}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := NewDispatcher(nil, tc.reader, nil, cache.NewPoolCache(), cache.NewMarketCache(),
				solana.WrappedSol, authority)
			if got := d.hasUpdateAuthority(context.Background(), mint); got != tc.want {
				t.Errorf("hasUpdateAuthority = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDispatcher_OnPoolSkipsMismatchedAuthority(t *testing.T) {
	authority := solana.NewWallet().PublicKey()
	reader := &fakeAccountReader{data: metadataRecord(solana.NewWallet().PublicKey())}
	pools := cache.NewPoolCache()

	d := NewDispatcher(nil, reader, nil, pools, cache.NewMarketCache(),
		solana.WrappedSol, authority)

	state := &domain.LiquidityStateV4{
		BaseMint:     solana.NewWallet().PublicKey(),
		PoolOpenTime: uint64(time.Now().Add(time.Minute).Unix()),
	}
	d.OnPool(context.Background())(solana.NewWallet().PublicKey(), state)

	if pools.Has(state.BaseMint.String()) {
		t.Error("pool with a mismatched update authority must not be admitted")
	}
}

func TestDispatcher_OnPoolSkipsPreExistingPool(t *testing.T) {
	pools := cache.NewPoolCache()
	d := NewDispatcher(nil, &fakeAccountReader{}, nil, pools, cache.NewMarketCache(),
		solana.WrappedSol, solana.PublicKey{})

	state := &domain.LiquidityStateV4{
		BaseMint:     solana.NewWallet().PublicKey(),
		PoolOpenTime: uint64(time.Now().Add(-time.Hour).Unix()),
	}
	d.OnPool(context.Background())(solana.NewWallet().PublicKey(), state)

	if pools.Has(state.BaseMint.String()) {
		t.Error("pool opened before process start must not be admitted")
	}
}

func TestDispatcher_OnPoolSkipsDuplicate(t *testing.T) {
	pools := cache.NewPoolCache()
	d := NewDispatcher(nil, &fakeAccountReader{}, nil, pools, cache.NewMarketCache(),
		solana.WrappedSol, solana.PublicKey{})

	state := &domain.LiquidityStateV4{
		BaseMint:     solana.NewWallet().PublicKey(),
		PoolOpenTime: uint64(time.Now().Add(time.Minute).Unix()),
	}
	firstID := solana.NewWallet().PublicKey()
	pools.Save(firstID, state)

	// A second notification for the same mint must return before any
	// workflow dispatch; the cached entry stays untouched.
	d.OnPool(context.Background())(solana.NewWallet().PublicKey(), state)

	entry, _ := pools.Get(state.BaseMint.String())
	if !entry.ID.Equals(firstID) {
		t.Error("duplicate notification must not replace the cached pool")
	}
}
