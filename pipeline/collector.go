// Package pipeline is the host side of class synthesis: it hands out class
// names, collects the classes the emitter submits, and streams them to the
// build pipeline that links them into the program.
package pipeline

import (
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/robfig/flavour/model"
)

// DefaultPrefix is prepended to generated class names when none is given.
const DefaultPrefix = "flavour$"

// Collector allocates class names and records submitted classes. It is safe
// for concurrent use, so several templates may share one Collector.
type Collector struct {
	prefix string
	next   int64

	mu      sync.Mutex
	classes []*model.ClassHolder
	byName  map[string]*model.ClassHolder
}

func NewCollector(prefix string) *Collector {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Collector{prefix: prefix, byName: make(map[string]*model.ClassHolder)}
}

// GenerateClassName returns prefix followed by a sequence number.
func (c *Collector) GenerateClassName() string {
	return c.prefix + strconv.FormatInt(atomic.AddInt64(&c.next, 1), 10)
}

// SubmitClass records cls. Each class may be submitted once.
func (c *Collector) SubmitClass(cls *model.ClassHolder) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.byName[cls.Name]; ok {
		return fmt.Errorf("class %s submitted twice", cls.Name)
	}
	c.byName[cls.Name] = cls
	c.classes = append(c.classes, cls)
	return nil
}

// Classes returns the submitted classes in submission order.
func (c *Collector) Classes() []*model.ClassHolder {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*model.ClassHolder(nil), c.classes...)
}

// Class returns the submitted class with the given name, or nil.
func (c *Collector) Class(name string) *model.ClassHolder {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.byName[name]
}

func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.classes)
}
