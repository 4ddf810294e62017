package renderer

import (
	"github.com/google/uuid"

	"github.com/cantarcan/NazaraEngine/engine/core"
	"github.com/cantarcan/NazaraEngine/engine/resource"
)

// Context stands for one rendering context (one window, usually). GPU object
// handles such as VAOs are not shareable across contexts, so the VAO cache
// keeps one table per context. Only one context is current at a time.
type Context struct {
	resource.Resource

	label    string
	activate func(active bool) error
	active   bool
}

// NewContext wraps an existing platform context. activate makes the context
// current (or not) on the calling goroutine; it may be nil for contexts the
// platform keeps permanently current.
func NewContext(activate func(active bool) error) *Context {
	return &Context{
		Resource: resource.NewResource("context"),
		label:    uuid.NewString(),
		activate: activate,
	}
}

// Label is a stable identifier for log correlation.
func (c *Context) Label() string {
	return c.label
}

func (c *Context) IsActive() bool {
	return c.active
}

func (c *Context) SetActive(active bool) error {
	if c.active == active {
		return nil
	}
	if c.activate != nil {
		if err := c.activate(active); err != nil {
			core.LogError("context %s: activation failed: %s", c.label, err.Error())
			return err
		}
	}
	c.active = active
	return nil
}

// Destroy notifies subscribed caches before the platform context goes away.
func (c *Context) Destroy() {
	c.NotifyDestroy()
}
