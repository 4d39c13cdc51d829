package surface

import (
	"sync"
)

// Event is a single inbound deep link, or a notice that the browsing surface
// was closed by the user.
type Event struct {
	URL       string
	Cancelled bool
}

// Channel delivers inbound deep links to at most one subscriber. Events
// published with no subscriber are dropped.
type Channel struct {
	mu     sync.Mutex
	active *Subscription
}

func NewChannel() *Channel {
	return &Channel{}
}

// Subscription is a live registration on a Channel. It must be released with
// Unsubscribe once the in flight operation resolves.
type Subscription struct {
	channel *Channel
	events  chan Event
	once    sync.Once
}

// Subscribe registers the single subscriber, failing with
// ErrAlreadySubscribed if one is already registered.
func (c *Channel) Subscribe() (*Subscription, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active != nil {
		return nil, ErrAlreadySubscribed
	}

	c.active = &Subscription{
		channel: c,
		events:  make(chan Event, 1),
	}
	return c.active, nil
}

// Events receives at most one event per subscription.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Unsubscribe releases the subscription. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.channel.mu.Lock()
		defer s.channel.mu.Unlock()

		if s.channel.active == s {
			s.channel.active = nil
		}
	})
}

// Publish delivers a deep link to the current subscriber and reports whether
// it was accepted.
func (c *Channel) Publish(url string) bool {
	return c.publish(Event{URL: url})
}

// Cancel notifies the current subscriber that the user closed the surface.
func (c *Channel) Cancel() bool {
	return c.publish(Event{Cancelled: true})
}

func (c *Channel) publish(event Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == nil {
		return false
	}

	select {
	case c.active.events <- event:
		return true
	default:
		// An event is already pending for this subscriber
		return false
	}
}

// Subscribed reports whether a subscriber is currently registered.
func (c *Channel) Subscribed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.active != nil
}
