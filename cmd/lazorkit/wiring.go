package main

import (
	"context"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	xrate "golang.org/x/time/rate"

	"github.com/lazor-kit/wallet-client/pkg/app"
	"github.com/lazor-kit/wallet-client/pkg/auth"
	"github.com/lazor-kit/wallet-client/pkg/rate"
	"github.com/lazor-kit/wallet-client/pkg/relayer"
	"github.com/lazor-kit/wallet-client/pkg/session"
	"github.com/lazor-kit/wallet-client/pkg/smartwallet"
	"github.com/lazor-kit/wallet-client/pkg/solana"
	"github.com/lazor-kit/wallet-client/pkg/surface"
)

func (c *cli) smartWallets() *smartwallet.Client {
	return smartwallet.NewClient(solana.New(c.config.SolanaRpcEndpoint))
}

// sessions opens the configured store and restores any persisted wallet.
func (c *cli) sessions(ctx context.Context) (*session.Holder, error) {
	store, closeFunc, err := app.NewSessionStore(ctx, c.config)
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, closeFunc)

	holder := session.NewHolder(store)
	if _, err := holder.Restore(ctx); err != nil {
		return nil, errors.Wrap(err, "error restoring session")
	}
	return holder, nil
}

// driver starts the loopback callback server and returns an auth driver
// launching the portal in the system browser. The server stops when ctx is
// done.
func (c *cli) driver(ctx context.Context, sessions *session.Holder) (*auth.Driver, error) {
	channel := surface.NewChannel()

	limiter := rate.NewLocalRateLimiter(xrate.Limit(c.config.CallbackRateLimit), c.config.CallbackRateBurst)
	server := surface.NewCallbackServer(channel, limiter)

	callbackURL, err := server.Start(ctx, c.config.CallbackListenAddress)
	if err != nil {
		return nil, errors.Wrap(err, "error starting callback server")
	}

	launcher := surface.NewDeepLinkLauncher(surface.NewSystemBrowser(), channel)

	return auth.NewDriver(
		c.smartWallets(),
		relayer.NewClient(relayer.WithEnvConfigs()),
		launcher,
		sessions,
		callbackURL,
		auth.WithEnvConfigs(),
	), nil
}

func decodeAddress(name, value string) (ed25519.PublicKey, error) {
	decoded, err := base58.Decode(value)
	if err != nil || len(decoded) != ed25519.PublicKeySize {
		return nil, errors.Errorf("invalid %s address %q", name, value)
	}
	return decoded, nil
}
