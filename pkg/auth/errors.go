package auth

import (
	"github.com/pkg/errors"

	"github.com/lazor-kit/wallet-client/pkg/portal"
	"github.com/lazor-kit/wallet-client/pkg/relayer"
	"github.com/lazor-kit/wallet-client/pkg/solana/lazorkit"
	"github.com/lazor-kit/wallet-client/pkg/surface"
)

var (
	ErrOperationInProgress    = errors.New("another connect or sign operation is in progress")
	ErrNotConnected           = errors.New("no connected wallet")
	ErrWalletResolutionFailed = errors.New("smart wallet not found after creation")
)

// Errors surfaced by the driver that originate in other packages.
var (
	ErrInvalidKeyMaterial      = lazorkit.ErrInvalidKeyMaterial
	ErrInvalidRedirectPayload  = portal.ErrInvalidRedirectPayload
	ErrUserCancelled           = surface.ErrUserCancelled
	ErrRelayerSubmissionFailed = relayer.ErrRelayerSubmissionFailed
)
