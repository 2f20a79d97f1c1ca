package solanarpc

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"sniper_go/internal/domain"
	"sniper_go/internal/infra"

	"github.com/gagliardetto/solana-go"
	"github.com/gorilla/websocket"
)

const (
	handshakeTimeout = 10 * time.Second
	pingInterval     = 20 * time.Second
	readTimeout      = 60 * time.Second
	maxRetries       = 10

	// base58 of the little-endian u64 6: pool status "swap enabled".
	poolStatusSwapEnabled = "21D35quxec7"

	// quoteMint offset inside MarketStateV3.
	marketQuoteMintOffset = 85
	// owner offset inside an SPL token account.
	tokenAccountOwnerOffset = 32
)

// Subscription kinds, used to route notifications to handlers.
const (
	subKindPool   = "pool"
	subKindMarket = "market"
	subKindWallet = "wallet"
)

// Handlers for decoded subscription notifications. They are invoked on
// their own goroutine per event; the read loop never blocks on them.
type (
	PoolHandler   func(accountID solana.PublicKey, state *domain.LiquidityStateV4)
	MarketHandler func(accountID solana.PublicKey, state *domain.MarketStateV3)
	WalletHandler func(accountID solana.PublicKey, account *domain.TokenAccount)
)

// Listener maintains one pubsub connection with three program
// subscriptions: Raydium pools quoted in the configured mint, OpenBook
// markets for that mint, and the wallet's token accounts. Reconnects
// with backoff and resubscribes on every new connection.
type Listener struct {
	wsURL       string
	quoteMint   solana.PublicKey
	walletOwner solana.PublicKey

	onPool   PoolHandler
	onMarket MarketHandler
	onWallet WalletHandler

	conn      *websocket.Conn
	mu        sync.RWMutex
	writeMu   sync.Mutex
	connected bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup

	subMu   sync.Mutex
	nextID  int64
	pending map[int64]string // request id -> kind, awaiting confirmation
	subs    map[int64]string // subscription id -> kind
}

// NewListener creates a listener; handlers may be nil to ignore a feed.
func NewListener(wsURL string, quoteMint, walletOwner solana.PublicKey, onPool PoolHandler, onMarket MarketHandler, onWallet WalletHandler) *Listener {
	return &Listener{
		wsURL:       wsURL,
		quoteMint:   quoteMint,
		walletOwner: walletOwner,
		onPool:      onPool,
		onMarket:    onMarket,
		onWallet:    onWallet,
		pending:     make(map[int64]string),
		subs:        make(map[int64]string),
	}
}

// Connect starts the connection loop in the background.
func (l *Listener) Connect(ctx context.Context) error {
	ctx, l.cancel = context.WithCancel(ctx)
	l.wg.Add(1)
	go l.connectionLoop(ctx)
	return nil
}

// Disconnect stops the listener and waits for its goroutines.
func (l *Listener) Disconnect() {
	if l.cancel != nil {
		l.cancel()
	}
	l.closeConnection()
	l.wg.Wait()
}

func (l *Listener) connectionLoop(ctx context.Context) {
	defer l.wg.Done()
	retryCount := 0
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := l.connect(ctx); err != nil {
			slog.Warn("Pubsub connection failed", slog.Any("error", err), slog.Int("retry", retryCount))
			retryCount++
			if retryCount > maxRetries {
				retryCount = 0 // keep retrying forever, just reset the backoff
			}
			delay := infra.CalculateBackoff(retryCount)
			time.Sleep(delay)
		} else {
			retryCount = 0
			l.readLoop(ctx)
		}
	}
}

func (l *Listener) connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, l.wsURL, nil)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.conn = conn
	l.connected = true
	l.mu.Unlock()

	l.subMu.Lock()
	l.pending = make(map[int64]string)
	l.subs = make(map[int64]string)
	l.subMu.Unlock()

	if err := l.subscribeAll(); err != nil {
		l.closeConnection()
		return err
	}

	go l.pingLoop(ctx)
	infra.GlobalMetrics.IncrementSubscriptions()
	slog.Info("Pubsub connected", slog.String("url", l.wsURL))
	return nil
}

type subscribeRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int64         `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

func memcmpFilter(offset int, bytes string) map[string]interface{} {
	return map[string]interface{}{
		"memcmp": map[string]interface{}{"offset": offset, "bytes": bytes},
	}
}

func dataSizeFilter(size int) map[string]interface{} {
	return map[string]interface{}{"dataSize": size}
}

func (l *Listener) subscribeAll() error {
	if l.onPool != nil {
		err := l.programSubscribe(subKindPool, domain.RaydiumAMMV4ProgramID, []interface{}{
			dataSizeFilter(domain.LiquidityStateV4Span),
			memcmpFilter(domain.LiquidityStateQuoteMintOffset, l.quoteMint.String()),
			memcmpFilter(domain.LiquidityStateMarketProgramOffset, domain.OpenBookProgramID.String()),
			memcmpFilter(domain.LiquidityStateStatusOffset, poolStatusSwapEnabled),
		})
		if err != nil {
			return err
		}
	}
	if l.onMarket != nil {
		err := l.programSubscribe(subKindMarket, domain.OpenBookProgramID, []interface{}{
			dataSizeFilter(domain.MarketStateV3Span),
			memcmpFilter(marketQuoteMintOffset, l.quoteMint.String()),
		})
		if err != nil {
			return err
		}
	}
	if l.onWallet != nil {
		err := l.programSubscribe(subKindWallet, solana.TokenProgramID, []interface{}{
			dataSizeFilter(domain.TokenAccountSpan),
			memcmpFilter(tokenAccountOwnerOffset, l.walletOwner.String()),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (l *Listener) programSubscribe(kind string, program solana.PublicKey, filters []interface{}) error {
	l.subMu.Lock()
	l.nextID++
	id := l.nextID
	l.pending[id] = kind
	l.subMu.Unlock()

	req := subscribeRequest{
		JSONRPC: "2.0",
		ID:      id,
		Method:  "programSubscribe",
		Params: []interface{}{
			program.String(),
			map[string]interface{}{
				"encoding":   "base64",
				"commitment": "processed",
				"filters":    filters,
			},
		},
	}
	b, err := json.Marshal(req)
	if err != nil {
		return err
	}
	return l.threadSafeWrite(websocket.TextMessage, b)
}

func (l *Listener) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.mu.RLock()
			conn := l.conn
			l.mu.RUnlock()
			if conn == nil {
				return
			}
			l.writeMu.Lock()
			conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
			l.writeMu.Unlock()
		}
	}
}

func (l *Listener) threadSafeWrite(msgType int, data []byte) error {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.conn == nil {
		return fmt.Errorf("no conn")
	}
	return l.conn.WriteMessage(msgType, data)
}

// wsMessage covers both subscription confirmations and notifications.
type wsMessage struct {
	ID     int64           `json:"id"`
	Result json.RawMessage `json:"result"`
	Method string          `json:"method"`
	Params *struct {
		Subscription int64 `json:"subscription"`
		Result       struct {
			Value struct {
				Pubkey  string `json:"pubkey"`
				Account struct {
					Data []string `json:"data"`
				} `json:"account"`
			} `json:"value"`
		} `json:"result"`
	} `json:"params"`
}

func (l *Listener) readLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		l.mu.RLock()
		if l.conn == nil {
			l.mu.RUnlock()
			return
		}
		l.conn.SetReadDeadline(time.Now().Add(readTimeout))
		l.mu.RUnlock()

		_, msg, err := l.conn.ReadMessage()
		if err != nil {
			slog.Warn("Pubsub read failed, reconnecting", slog.Any("error", err))
			l.closeConnection()
			return
		}
		l.handleMessage(msg)
	}
}

func (l *Listener) handleMessage(raw []byte) {
	var msg wsMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		slog.Debug("Malformed pubsub message", slog.Any("error", err))
		return
	}

	// Subscription confirmation: result carries the subscription id.
	if msg.ID != 0 && msg.Result != nil {
		var subID int64
		if err := json.Unmarshal(msg.Result, &subID); err != nil {
			return
		}
		l.subMu.Lock()
		if kind, ok := l.pending[msg.ID]; ok {
			l.subs[subID] = kind
			delete(l.pending, msg.ID)
			slog.Debug("Subscription confirmed", slog.String("kind", kind), slog.Int64("sub", subID))
		}
		l.subMu.Unlock()
		return
	}

	if msg.Method != "programNotification" || msg.Params == nil {
		return
	}

	l.subMu.Lock()
	kind, ok := l.subs[msg.Params.Subscription]
	l.subMu.Unlock()
	if !ok {
		return
	}

	value := msg.Params.Result.Value
	accountID, err := solana.PublicKeyFromBase58(value.Pubkey)
	if err != nil {
		slog.Debug("Malformed account id in notification", slog.String("pubkey", value.Pubkey))
		return
	}
	if len(value.Account.Data) == 0 {
		return
	}
	data, err := base64.StdEncoding.DecodeString(value.Account.Data[0])
	if err != nil {
		slog.Debug("Malformed account data in notification", slog.Any("error", err))
		return
	}

	// Dispatch off the read loop; trade workflows block on network I/O.
	go l.dispatch(kind, accountID, data)
}

func (l *Listener) dispatch(kind string, accountID solana.PublicKey, data []byte) {
	switch kind {
	case subKindPool:
		state, err := domain.DecodeLiquidityStateV4(data)
		if err != nil {
			slog.Debug("Failed to decode pool record", slog.Any("error", err))
			return
		}
		l.onPool(accountID, state)
	case subKindMarket:
		state, err := domain.DecodeMarketStateV3(data)
		if err != nil {
			slog.Debug("Failed to decode market record", slog.Any("error", err))
			return
		}
		l.onMarket(accountID, state)
	case subKindWallet:
		account, err := domain.DecodeTokenAccount(data)
		if err != nil {
			slog.Debug("Failed to decode token account", slog.Any("error", err))
			return
		}
		l.onWallet(accountID, account)
	}
}

func (l *Listener) closeConnection() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.conn != nil {
		l.conn.Close()
		l.conn = nil
		infra.GlobalMetrics.DecrementSubscriptions()
	}
	l.connected = false
}

// IsConnected reports whether the pubsub connection is up.
func (l *Listener) IsConnected() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.connected
}
