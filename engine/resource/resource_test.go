package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingListener struct {
	destroyed     []uint32
	released      []uint32
	tags          []int
	keepOnDestroy bool
}

func (l *recordingListener) OnResourceDestroy(r *Resource, tag int) bool {
	l.destroyed = append(l.destroyed, r.UniqueID())
	l.tags = append(l.tags, tag)
	return l.keepOnDestroy
}

func (l *recordingListener) OnResourceReleased(r *Resource, tag int) {
	l.released = append(l.released, r.UniqueID())
}

func TestSubscribeAndDestroy(t *testing.T) {
	r := NewResource("buffer")
	l := &recordingListener{keepOnDestroy: true}

	r.Subscribe(l, 7)
	r.NotifyDestroy()

	assert.Len(t, l.destroyed, 1)
	assert.Equal(t, 7, l.tags[0])
	// Listener kept itself subscribed, so the release event follows.
	assert.Len(t, l.released, 1)
}

func TestDestroyFalseReturnSkipsRelease(t *testing.T) {
	r := NewResource("buffer")
	l := &recordingListener{keepOnDestroy: false}

	r.Subscribe(l, 0)
	r.NotifyDestroy()

	assert.Len(t, l.destroyed, 1)
	assert.Empty(t, l.released)
}

func TestUnsubscribeIdempotent(t *testing.T) {
	r := NewResource("decl")
	l := &recordingListener{}

	r.Unsubscribe(l) // not subscribed, must not panic
	r.Subscribe(l, 1)
	r.Unsubscribe(l)
	r.Unsubscribe(l)
	r.NotifyDestroy()

	assert.Empty(t, l.destroyed)
}

func TestResubscribeUpdatesTag(t *testing.T) {
	r := NewResource("mesh")
	l := &recordingListener{keepOnDestroy: true}

	r.Subscribe(l, 1)
	r.Subscribe(l, 2)
	r.NotifyDestroy()

	assert.Len(t, l.destroyed, 1)
	assert.Equal(t, 2, l.tags[0])
}

func TestNotifyReleaseKeepsSubscription(t *testing.T) {
	r := NewResource("material")
	l := &recordingListener{keepOnDestroy: true}

	r.Subscribe(l, 0)
	r.NotifyRelease()
	r.NotifyRelease()

	assert.Len(t, l.released, 2)
	assert.Empty(t, l.destroyed)
}
