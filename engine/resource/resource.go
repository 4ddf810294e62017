package resource

import (
	"github.com/cantarcan/NazaraEngine/engine/core"
)

// Listener is notified by a resource it subscribed to right before that
// resource goes away. Callbacks run inline on the goroutine driving the
// destruction; they must limit themselves to cache eviction. The resource's
// underlying handle may already be partially torn down, so no GPU calls.
type Listener interface {
	// OnResourceDestroy is fired when the resource is about to be destroyed.
	// Returning false unsubscribes the listener, meaning it will not receive
	// the matching OnResourceReleased event.
	OnResourceDestroy(resource *Resource, tag int) bool

	// OnResourceReleased is fired when the resource is released by the code
	// owning it. Destruction implies a release.
	OnResourceReleased(resource *Resource, tag int)
}

type registeredListener struct {
	listener Listener
	tag      int
}

// Resource carries the identity and the destruction-notification channel of
// any externally-owned object (material, mesh, buffer, declaration,
// context). It is meant to be embedded; caches hold the owning object by
// reference and never copy it.
type Resource struct {
	id        uint32
	name      string
	listeners []registeredListener
}

func NewResource(name string) Resource {
	r := Resource{name: name}
	r.id = core.IdentifierAcquireNewID(&r)
	return r
}

// UniqueID returns the resource identity. It is stable for the lifetime of
// the resource and never zero.
func (r *Resource) UniqueID() uint32 {
	if r.id == 0 {
		// Lazily acquired so zero-value embedders still get an identity.
		r.id = core.IdentifierAcquireNewID(r)
	}
	return r.id
}

func (r *Resource) Name() string {
	return r.name
}

func (r *Resource) SetName(name string) {
	r.name = name
}

// Subscribe registers the listener with an opaque tag the listener gets back
// in every callback. Subscribing the same listener again only updates the tag.
func (r *Resource) Subscribe(listener Listener, tag int) {
	for i := range r.listeners {
		if r.listeners[i].listener == listener {
			r.listeners[i].tag = tag
			return
		}
	}
	r.listeners = append(r.listeners, registeredListener{listener: listener, tag: tag})
}

// Unsubscribe removes the listener. Removing a listener which is not
// subscribed is a no-op.
func (r *Resource) Unsubscribe(listener Listener) {
	for i := range r.listeners {
		if r.listeners[i].listener == listener {
			r.listeners = append(r.listeners[:i], r.listeners[i+1:]...)
			return
		}
	}
}

// NotifyDestroy must be called by the owning code right before the resource
// is destroyed. Every subscribed listener receives OnResourceDestroy and,
// unless it opted out by returning false, OnResourceReleased. The listener
// set is empty afterwards and the identity is given back.
func (r *Resource) NotifyDestroy() {
	// Listeners may unsubscribe from within the callback; iterate a copy.
	notified := make([]registeredListener, len(r.listeners))
	copy(notified, r.listeners)

	for _, reg := range notified {
		if !reg.listener.OnResourceDestroy(r, reg.tag) {
			r.Unsubscribe(reg.listener)
		}
	}

	for _, reg := range r.listeners {
		reg.listener.OnResourceReleased(r, reg.tag)
	}
	r.listeners = nil

	if r.id != 0 {
		if err := core.IdentifierReleaseID(r.id); err != nil {
			core.LogWarn("resource %q: %s", r.name, err.Error())
		}
		r.id = 0
	}
}

// NotifyRelease reports an explicit release without destruction, e.g. user
// code unloading a resource it may load again later. Listeners stay
// subscribed.
func (r *Resource) NotifyRelease() {
	notified := make([]registeredListener, len(r.listeners))
	copy(notified, r.listeners)

	for _, reg := range notified {
		reg.listener.OnResourceReleased(r, reg.tag)
	}
}
