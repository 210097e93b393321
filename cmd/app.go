package cmd

import (
	"context"

	"github.com/rs/zerolog"

	"monad-swap/config"
	"monad-swap/pkg/balance"
	"monad-swap/pkg/chain"
	"monad-swap/pkg/quote"
	"monad-swap/pkg/router"
	"monad-swap/pkg/token"
	"monad-swap/pkg/wallet"
)

// app wires the configured provider, session and on-chain clients for one
// command invocation.
type app struct {
	cfg      *config.Config
	network  chain.Network
	tokens   []token.Token
	provider *wallet.KeyProvider
	session  *wallet.Session
	reader   *balance.Reader
	router   *router.Client
	calc     *quote.Calculator
	log      zerolog.Logger
}

// newApp loads configuration and connects the wallet session, enforcing
// the target network.
func newApp(ctx context.Context, log zerolog.Logger) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	network := chain.MonadTestnet()
	if cfg.RPCURL != "" {
		network.RPCURL = cfg.RPCURL
	}
	if !cfg.FeeEnabled {
		network.FeeBps = 0
	}

	provider, err := wallet.NewKeyProvider(network.RPCURL, cfg.PrivateKey)
	if err != nil {
		return nil, err
	}

	tokens := token.DefaultList()
	reader := balance.NewReader(provider.Client(), tokens, log)
	rc := router.NewClient(provider.Client(), network.Router, network.Factory)

	session := wallet.NewSession(provider, network, log,
		wallet.WithClearHook(reader.Clear),
	)
	if _, err := session.Connect(ctx); err != nil {
		provider.Close()
		return nil, err
	}

	return &app{
		cfg:      cfg,
		network:  network,
		tokens:   tokens,
		provider: provider,
		session:  session,
		reader:   reader,
		router:   rc,
		calc:     quote.NewCalculator(rc, network, log),
		log:      log,
	}, nil
}

// Close releases the RPC connection.
func (a *app) Close() {
	a.provider.Close()
}
