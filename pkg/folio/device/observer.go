package device

import (
	"sync"

	"github.com/google/uuid"
)

// SubscriptionBuffer is the event capacity of each subscription.
const SubscriptionBuffer = 16

// Subscription receives a profile every time the observed environment
// changes classification.
type Subscription struct {
	ID     string
	Events chan Profile
}

// Observer tracks one environment and notifies subscribers when its
// profile changes. Events are applied one at a time; a subscriber that
// falls behind misses profiles rather than blocking the event source.
type Observer struct {
	mu          sync.Mutex
	env         Environment
	width       int
	height      int
	motion      *bool
	current     Profile
	subscribers map[string]*Subscription
	closed      bool
}

// NewObserver computes the initial profile for env.
func NewObserver(env Environment) *Observer {
	o := &Observer{
		env:         env,
		subscribers: make(map[string]*Subscription),
	}
	o.current = Observe(o.effective())
	return o
}

// Profile returns the current profile.
func (o *Observer) Profile() Profile {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current
}

// Subscribe registers a new subscriber. It returns nil after Close.
func (o *Observer) Subscribe() *Subscription {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return nil
	}

	sub := &Subscription{
		ID:     uuid.New().String(),
		Events: make(chan Profile, SubscriptionBuffer),
	}
	o.subscribers[sub.ID] = sub
	return sub
}

// Unsubscribe closes and removes a subscription. Unknown IDs are ignored.
func (o *Observer) Unsubscribe(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if sub, ok := o.subscribers[id]; ok {
		close(sub.Events)
		delete(o.subscribers, id)
	}
}

// Resize delivers a viewport resize event. Each non-positive dimension
// reverts to the environment's own value.
func (o *Observer) Resize(width, height int) {
	o.apply(func() {
		o.width, o.height = width, height
	})
}

// SetReducedMotion delivers a change of the reduced-motion preference.
func (o *Observer) SetReducedMotion(reduced bool) {
	o.apply(func() {
		o.motion = &reduced
	})
}

// Update replaces the whole environment, discarding earlier resize and
// preference events.
func (o *Observer) Update(env Environment) {
	o.apply(func() {
		o.env = env
		o.width, o.height = 0, 0
		o.motion = nil
	})
}

// Close detaches every subscriber. Later events are ignored.
func (o *Observer) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return
	}
	o.closed = true
	for id, sub := range o.subscribers {
		close(sub.Events)
		delete(o.subscribers, id)
	}
}

func (o *Observer) apply(change func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return
	}

	change()
	next := Observe(o.effective())
	if next == o.current {
		return
	}
	o.current = next

	for _, sub := range o.subscribers {
		select {
		case sub.Events <- next:
		default:
		}
	}
}

// effective layers pending events over the base environment.
// Must be called with o.mu held, or before o is shared.
func (o *Observer) effective() Environment {
	return overlay{
		Environment: orDefault(o.env),
		width:       o.width,
		height:      o.height,
		motion:      o.motion,
	}
}

func orDefault(env Environment) Environment {
	if env == nil {
		return Snapshot{}
	}
	return env
}

type overlay struct {
	Environment
	width, height int
	motion        *bool
}

// Viewport falls back to the environment per dimension.
func (v overlay) Viewport() (int, int) {
	width, height := v.Environment.Viewport()
	if v.width > 0 {
		width = v.width
	}
	if v.height > 0 {
		height = v.height
	}
	return width, height
}

func (v overlay) PrefersReducedMotion() bool {
	if v.motion != nil {
		return *v.motion
	}
	return v.Environment.PrefersReducedMotion()
}
