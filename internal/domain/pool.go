package domain

import (
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Mainnet program ids the engine trades against.
var (
	RaydiumAMMV4ProgramID = solana.MustPublicKeyFromBase58("675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8")
	OpenBookProgramID     = solana.MustPublicKeyFromBase58("srmqPvymJeFKQ4zGQed1GFppgkRHL9kaELCbyksJtPX")
	MetadataProgramID     = solana.MustPublicKeyFromBase58("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")
)

// Byte sizes of the raw account records, used both for decoding and as
// dataSize subscription filters.
const (
	LiquidityStateV4Span = 752
	MarketStateV3Span    = 388
	TokenAccountSpan     = 165
)

// memcmp offsets into LiquidityStateV4 used by the pool subscription.
const (
	LiquidityStateQuoteMintOffset     = 432
	LiquidityStateMarketProgramOffset = 560
	LiquidityStateStatusOffset        = 0
)

// LiquidityStateV4 mirrors the on-chain Raydium AMM v4 pool account.
// Field order matches the program layout exactly; decoded with bin.
type LiquidityStateV4 struct {
	Status                 uint64
	Nonce                  uint64
	MaxOrder               uint64
	Depth                  uint64
	BaseDecimal            uint64
	QuoteDecimal           uint64
	State                  uint64
	ResetFlag              uint64
	MinSize                uint64
	VolMaxCutRatio         uint64
	AmountWaveRatio        uint64
	BaseLotSize            uint64
	QuoteLotSize           uint64
	MinPriceMultiplier     uint64
	MaxPriceMultiplier     uint64
	SystemDecimalValue     uint64
	MinSeparateNumerator   uint64
	MinSeparateDenominator uint64
	TradeFeeNumerator      uint64
	TradeFeeDenominator    uint64
	PnlNumerator           uint64
	PnlDenominator         uint64
	SwapFeeNumerator       uint64
	SwapFeeDenominator     uint64
	BaseNeedTakePnl        uint64
	QuoteNeedTakePnl       uint64
	QuoteTotalPnl          uint64
	BaseTotalPnl           uint64
	PoolOpenTime           uint64
	PunishPcAmount         uint64
	PunishCoinAmount       uint64
	OrderbookToInitTime    uint64
	SwapBaseInAmount       bin.Uint128
	SwapQuoteOutAmount     bin.Uint128
	SwapBase2QuoteFee      uint64
	SwapQuoteInAmount      bin.Uint128
	SwapBaseOutAmount      bin.Uint128
	SwapQuote2BaseFee      uint64
	BaseVault              solana.PublicKey
	QuoteVault             solana.PublicKey
	BaseMint               solana.PublicKey
	QuoteMint              solana.PublicKey
	LpMint                 solana.PublicKey
	OpenOrders             solana.PublicKey
	MarketID               solana.PublicKey
	MarketProgramID        solana.PublicKey
	TargetOrders           solana.PublicKey
	WithdrawQueue          solana.PublicKey
	LpVault                solana.PublicKey
	Owner                  solana.PublicKey
	LpReserve              uint64
	Padding                [3]uint64
}

// DecodeLiquidityStateV4 decodes a raw pool account record.
func DecodeLiquidityStateV4(data []byte) (*LiquidityStateV4, error) {
	var s LiquidityStateV4
	if err := bin.NewBinDecoder(data).Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// MarketStateV3 mirrors the on-chain OpenBook (Serum v3) market account.
type MarketStateV3 struct {
	SerumPadding           [5]byte
	AccountFlags           uint64
	OwnAddress             solana.PublicKey
	VaultSignerNonce       uint64
	BaseMint               solana.PublicKey
	QuoteMint              solana.PublicKey
	BaseVault              solana.PublicKey
	BaseDepositsTotal      uint64
	BaseFeesAccrued        uint64
	QuoteVault             solana.PublicKey
	QuoteDepositsTotal     uint64
	QuoteFeesAccrued       uint64
	QuoteDustThreshold     uint64
	RequestQueue           solana.PublicKey
	EventQueue             solana.PublicKey
	Bids                   solana.PublicKey
	Asks                   solana.PublicKey
	BaseLotSize            uint64
	QuoteLotSize           uint64
	FeeRateBps             uint64
	ReferrerRebatesAccrued uint64
	TailPadding            [7]byte
}

// DecodeMarketStateV3 decodes a raw market account record.
func DecodeMarketStateV3(data []byte) (*MarketStateV3, error) {
	var s MarketStateV3
	if err := bin.NewBinDecoder(data).Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// MinimalMarket is the slice of the market record the swap path needs:
// the order-book addresses referenced by the pool keys.
type MinimalMarket struct {
	EventQueue solana.PublicKey
	Bids       solana.PublicKey
	Asks       solana.PublicKey
}

// Minimal returns the order-book addresses of a decoded market record.
func (s *MarketStateV3) Minimal() *MinimalMarket {
	return &MinimalMarket{
		EventQueue: s.EventQueue,
		Bids:       s.Bids,
		Asks:       s.Asks,
	}
}

// TokenAccount mirrors an SPL token account record (the wallet
// subscription delivers these).
type TokenAccount struct {
	Mint                 solana.PublicKey
	Owner                solana.PublicKey
	Amount               uint64
	DelegateOption       uint32
	Delegate             solana.PublicKey
	State                uint8
	IsNativeOption       uint32
	IsNative             uint64
	DelegatedAmount      uint64
	CloseAuthorityOption uint32
	CloseAuthority       solana.PublicKey
}

// DecodeTokenAccount decodes a raw SPL token account record.
func DecodeTokenAccount(data []byte) (*TokenAccount, error) {
	var a TokenAccount
	if err := bin.NewBinDecoder(data).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// PoolKeys is the fully resolved pool descriptor: every address needed to
// build a swap instruction against one Raydium v4 pool. Derived once per
// pool, then immutable.
type PoolKeys struct {
	ID              solana.PublicKey
	BaseMint        solana.PublicKey
	QuoteMint       solana.PublicKey
	LpMint          solana.PublicKey
	BaseDecimals    uint8
	QuoteDecimals   uint8
	Authority       solana.PublicKey
	OpenOrders      solana.PublicKey
	TargetOrders    solana.PublicKey
	BaseVault       solana.PublicKey
	QuoteVault      solana.PublicKey
	WithdrawQueue   solana.PublicKey
	LpVault         solana.PublicKey
	MarketProgramID solana.PublicKey
	MarketID        solana.PublicKey
	MarketAuthority solana.PublicKey
	MarketBaseVault solana.PublicKey
	MarketQuoteVault solana.PublicKey
	MarketBids       solana.PublicKey
	MarketAsks       solana.PublicKey
	MarketEventQueue solana.PublicKey
}
