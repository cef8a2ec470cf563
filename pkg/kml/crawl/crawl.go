package crawl

import (
	"errors"
	"reflect"
	"slices"

	"github.com/matzehuels/kmltool/pkg/kml"
)

// SkipChildren is returned by [Listener.OnFeature] to skip the members of
// the container being visited. It is never returned by [Crawl].
var SkipChildren = errors.New("skip children")

// Item is a visited node together with its ancestors at the time of the
// visit.
type Item struct {
	Node  kml.Node
	stack []kml.Container // nearest first; never mutated after creation
}

// Stack returns a copy of the ancestor chain, nearest ancestor first. The
// root's stack is empty.
func (it Item) Stack() []kml.Container {
	return slices.Clone(it.stack)
}

// Depth returns the number of ancestors.
func (it Item) Depth() int {
	return len(it.stack)
}

// Parent returns the owning container, or nil for the root.
func (it Item) Parent() kml.Container {
	if len(it.stack) == 0 {
		return nil
	}
	return it.stack[0]
}

// FirstParentOf returns the nearest ancestor of the given kind, or nil.
func (it Item) FirstParentOf(k kml.Kind) kml.Container {
	for _, c := range it.stack {
		if c.Kind() == k {
			return c
		}
	}
	return nil
}

// Feature returns the node as a feature, or nil.
func (it Item) Feature() kml.Feature {
	f, _ := it.Node.(kml.Feature)
	return f
}

// Listener receives walk events.
type Listener interface {
	OnFeature(Item) error
	OnStyleSelector(Item) error
}

// LeaveListener is implemented by listeners that want to know when a
// container's subtree has been walked. OnLeave is not called for a
// container whose children were skipped.
type LeaveListener interface {
	OnLeave(Item) error
}

// Funcs adapts plain functions to [Listener] and [LeaveListener]. Nil
// fields are ignored.
type Funcs struct {
	Feature       func(Item) error
	StyleSelector func(Item) error
	Leave         func(Item) error
}

func (f Funcs) OnFeature(it Item) error {
	if f.Feature == nil {
		return nil
	}
	return f.Feature(it)
}

func (f Funcs) OnStyleSelector(it Item) error {
	if f.StyleSelector == nil {
		return nil
	}
	return f.StyleSelector(it)
}

func (f Funcs) OnLeave(it Item) error {
	if f.Leave == nil {
		return nil
	}
	return f.Leave(it)
}

// Crawler dispatches walk events to an ordered set of listeners.
// The zero value has no listeners and is ready to use.
type Crawler struct {
	listeners []Listener
}

// New returns a crawler with the given listeners.
func New(listeners ...Listener) *Crawler {
	return &Crawler{listeners: slices.Clone(listeners)}
}

// AddListener appends l and returns c for chaining.
func (c *Crawler) AddListener(l Listener) *Crawler {
	c.listeners = append(c.listeners, l)
	return c
}

// RemoveListener removes the first occurrence of l. Listeners of a
// non-comparable type, such as [Funcs], cannot be removed.
func (c *Crawler) RemoveListener(l Listener) {
	if l == nil || !reflect.TypeOf(l).Comparable() {
		return
	}
	for i, x := range c.listeners {
		if x == l {
			c.listeners = slices.Delete(c.listeners, i, i+1)
			return
		}
	}
}

// Crawl walks the tree rooted at root. A nil root is a no-op.
func (c *Crawler) Crawl(root kml.Feature) error {
	if root == nil {
		return nil
	}
	return c.visit(root, nil)
}

// Crawl walks the tree rooted at root with the given listeners.
func Crawl(root kml.Feature, listeners ...Listener) error {
	return New(listeners...).Crawl(root)
}

func (c *Crawler) visit(n kml.Node, stack []kml.Container) error {
	it := Item{Node: n, stack: stack}

	switch n.(type) {
	case kml.Feature:
		skip := false
		for _, l := range c.listeners {
			err := l.OnFeature(it)
			if errors.Is(err, SkipChildren) {
				skip = true
				continue
			}
			if err != nil {
				return err
			}
		}
		cont, ok := n.(kml.Container)
		if !ok || skip {
			return nil
		}
		return c.descend(cont, it)
	case kml.StyleSelector:
		for _, l := range c.listeners {
			if err := l.OnStyleSelector(it); err != nil {
				return err
			}
		}
		return nil
	default:
		panic("crawl: unexpected member " + n.Kind().String())
	}
}

func (c *Crawler) descend(cont kml.Container, it Item) error {
	members := cont.Members().Snapshot()

	child := make([]kml.Container, 0, len(it.stack)+1)
	child = append(child, cont)
	child = append(child, it.stack...)

	for _, m := range members {
		if err := c.visit(m, child); err != nil {
			return err
		}
	}

	for _, l := range c.listeners {
		if ll, ok := l.(LeaveListener); ok {
			if err := ll.OnLeave(it); err != nil {
				return err
			}
		}
	}
	return nil
}
