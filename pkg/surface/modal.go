package surface

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/lazor-kit/wallet-client/pkg/portal"
)

type AuthSessionResultType string

const (
	AuthSessionSuccess AuthSessionResultType = "success"
	AuthSessionCancel  AuthSessionResultType = "cancel"
	AuthSessionDismiss AuthSessionResultType = "dismiss"
)

type AuthSessionResult struct {
	Type AuthSessionResultType
	URL  string
}

// AuthSession is a platform authentication session: a modal browser that
// closes itself on the first navigation to callbackURL.
type AuthSession interface {
	Open(ctx context.Context, target, callbackURL string) (AuthSessionResult, error)
}

// ModalLauncher resolves synchronously when the authentication session
// closes. Both success and cancellation are terminal. It is the launcher for
// hosts embedding a platform auth session (mobile webviews, desktop shells);
// the lazorkit CLI uses DeepLinkLauncher over the system browser instead.
type ModalLauncher struct {
	log     *logrus.Entry
	session AuthSession
}

func NewModalLauncher(session AuthSession) *ModalLauncher {
	return &ModalLauncher{
		log:     logrus.StandardLogger().WithField("type", "surface/modal_launcher"),
		session: session,
	}
}

func (l *ModalLauncher) Launch(ctx context.Context, target, callbackURL string) (string, error) {
	log := l.log.WithField("method", "Launch")

	result, err := l.session.Open(ctx, target, callbackURL)
	if err != nil {
		return "", errors.Wrap(err, "error opening auth session")
	}

	switch result.Type {
	case AuthSessionSuccess:
		if result.URL == "" {
			log.Warn("auth session succeeded without a redirect url")
			return "", errors.Wrap(portal.ErrInvalidRedirectPayload, "auth session returned no redirect")
		}
		return result.URL, nil
	default:
		log.WithField("result", result.Type).Debug("auth session closed without completing")
		return "", ErrUserCancelled
	}
}
