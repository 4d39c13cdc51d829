package surface

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Browser is a non modal browsing surface that the app can dismiss.
type Browser interface {
	Open(ctx context.Context, target string) error
	Dismiss() error
}

// DeepLinkLauncher opens a browser and listens on a deep link channel for the
// redirect. The subscription is held only for the duration of Launch.
type DeepLinkLauncher struct {
	log     *logrus.Entry
	browser Browser
	channel *Channel
}

func NewDeepLinkLauncher(browser Browser, channel *Channel) *DeepLinkLauncher {
	return &DeepLinkLauncher{
		log:     logrus.StandardLogger().WithField("type", "surface/deep_link_launcher"),
		browser: browser,
		channel: channel,
	}
}

func (l *DeepLinkLauncher) Launch(ctx context.Context, target, callbackURL string) (string, error) {
	log := l.log.WithField("method", "Launch")

	sub, err := l.channel.Subscribe()
	if err != nil {
		return "", err
	}
	defer sub.Unsubscribe()

	if err := l.browser.Open(ctx, target); err != nil {
		return "", errors.Wrap(err, "error opening browser")
	}

	for {
		select {
		case <-ctx.Done():
			l.dismiss(log)
			return "", ctx.Err()
		case event := <-sub.Events():
			if event.Cancelled {
				l.dismiss(log)
				return "", ErrUserCancelled
			}
			if !matchesCallback(event.URL, callbackURL) {
				log.Debug("ignoring deep link for an unrelated target")
				continue
			}

			l.dismiss(log)
			return event.URL, nil
		}
	}
}

func (l *DeepLinkLauncher) dismiss(log *logrus.Entry) {
	if err := l.browser.Dismiss(); err != nil {
		log.WithError(err).Debug("failure dismissing browser")
	}
}
