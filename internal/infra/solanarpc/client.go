// Package solanarpc is the boundary layer to the Solana cluster: a
// throttled RPC client, the priority relay and the pubsub listener.
package solanarpc

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"sniper_go/internal/domain"
	"sniper_go/internal/infra"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// Client wraps the JSON-RPC client behind a request-rate limiter. It
// implements the engine's ReserveSource, SupplySource and
// BlockhashSource contracts.
type Client struct {
	rpc     *rpc.Client
	limiter *rate.Limiter
}

// NewClient creates a throttled RPC client. rps<=0 disables throttling.
func NewClient(endpoint string, rps int) *Client {
	limit := rate.Inf
	burst := 1
	if rps > 0 {
		limit = rate.Limit(rps)
		burst = rps
	}
	return &Client{
		rpc:     rpc.New(endpoint),
		limiter: rate.NewLimiter(limit, burst),
	}
}

func (c *Client) wait(ctx context.Context) error {
	return c.limiter.Wait(ctx)
}

// PoolReserves reads both vault balances of a pool, in raw base units.
func (c *Client) PoolReserves(ctx context.Context, keys *domain.PoolKeys) (domain.PoolReserves, error) {
	base, err := c.tokenBalance(ctx, keys.BaseVault)
	if err != nil {
		return domain.PoolReserves{}, err
	}
	quote, err := c.tokenBalance(ctx, keys.QuoteVault)
	if err != nil {
		return domain.PoolReserves{}, err
	}
	return domain.PoolReserves{Base: base, Quote: quote}, nil
}

func (c *Client) tokenBalance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	if err := c.wait(ctx); err != nil {
		return 0, err
	}
	out, err := c.rpc.GetTokenAccountBalance(ctx, account, rpc.CommitmentProcessed)
	if err != nil {
		infra.GlobalMetrics.RecordRPCError()
		return 0, domain.NewNetworkError("getTokenAccountBalance", err)
	}
	if out == nil || out.Value == nil {
		return 0, domain.NewNetworkError("getTokenAccountBalance", errors.New("empty result"))
	}
	amount, err := strconv.ParseUint(out.Value.Amount, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed token amount %q: %w", out.Value.Amount, err)
	}
	return amount, nil
}

// TokenSupplyUI reads the total supply of a mint in UI units.
func (c *Client) TokenSupplyUI(ctx context.Context, mint solana.PublicKey) (decimal.Decimal, error) {
	if err := c.wait(ctx); err != nil {
		return decimal.Zero, err
	}
	out, err := c.rpc.GetTokenSupply(ctx, mint, rpc.CommitmentProcessed)
	if err != nil {
		infra.GlobalMetrics.RecordRPCError()
		return decimal.Zero, domain.NewNetworkError("getTokenSupply", err)
	}
	if out == nil || out.Value == nil {
		return decimal.Zero, domain.NewNetworkError("getTokenSupply", errors.New("empty result"))
	}
	raw, err := decimal.NewFromString(out.Value.Amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("malformed supply %q: %w", out.Value.Amount, err)
	}
	return raw.Shift(-int32(out.Value.Decimals)), nil
}

// RecentBlockhash fetches a fresh blockhash and its last valid height.
func (c *Client) RecentBlockhash(ctx context.Context) (solana.Hash, uint64, error) {
	if err := c.wait(ctx); err != nil {
		return solana.Hash{}, 0, err
	}
	out, err := c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		infra.GlobalMetrics.RecordRPCError()
		return solana.Hash{}, 0, domain.NewNetworkError("getLatestBlockhash", err)
	}
	return out.Value.Blockhash, out.Value.LastValidBlockHeight, nil
}

// BlockHeight reads the current block height.
func (c *Client) BlockHeight(ctx context.Context) (uint64, error) {
	if err := c.wait(ctx); err != nil {
		return 0, err
	}
	height, err := c.rpc.GetBlockHeight(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		infra.GlobalMetrics.RecordRPCError()
		return 0, domain.NewNetworkError("getBlockHeight", err)
	}
	return height, nil
}

// SendTransaction submits a signed transaction, preflight skipped: the
// executor already priced the swap and a preflight simulation only
// costs time the snipe does not have.
func (c *Client) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	if err := c.wait(ctx); err != nil {
		return solana.Signature{}, err
	}
	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight: true,
	})
	if err != nil {
		infra.GlobalMetrics.RecordRPCError()
		return solana.Signature{}, domain.NewNetworkError("sendTransaction", err)
	}
	return sig, nil
}

// SignatureStatus reports whether a signature reached at least the
// confirmed commitment, and whether it errored on chain.
func (c *Client) SignatureStatus(ctx context.Context, sig solana.Signature) (confirmed bool, txErr error, err error) {
	if err := c.wait(ctx); err != nil {
		return false, nil, err
	}
	out, err := c.rpc.GetSignatureStatuses(ctx, false, sig)
	if err != nil {
		infra.GlobalMetrics.RecordRPCError()
		return false, nil, domain.NewNetworkError("getSignatureStatuses", err)
	}
	if out == nil || len(out.Value) == 0 || out.Value[0] == nil {
		return false, nil, nil
	}
	status := out.Value[0]
	if status.Err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrTransactionFailed, status.Err), nil
	}
	switch status.ConfirmationStatus {
	case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
		return true, nil, nil
	}
	return false, nil, nil
}

// AccountExists reports whether an account is present on chain. Used by
// the startup validation of the quote token account.
func (c *Client) AccountExists(ctx context.Context, account solana.PublicKey) (bool, error) {
	if err := c.wait(ctx); err != nil {
		return false, err
	}
	_, err := c.rpc.GetAccountInfo(ctx, account)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return false, nil
		}
		infra.GlobalMetrics.RecordRPCError()
		return false, domain.NewNetworkError("getAccountInfo", err)
	}
	return true, nil
}

// AccountData fetches raw account data, or nil when the account does
// not exist.
func (c *Client) AccountData(ctx context.Context, account solana.PublicKey) ([]byte, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	out, err := c.rpc.GetAccountInfo(ctx, account)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, nil
		}
		infra.GlobalMetrics.RecordRPCError()
		return nil, domain.NewNetworkError("getAccountInfo", err)
	}
	if out == nil || out.Value == nil || out.Value.Data == nil {
		return nil, nil
	}
	return out.Value.Data.GetBinary(), nil
}
