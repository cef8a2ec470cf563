package kml

import (
	"errors"
	"fmt"
)

var (
	// ErrNilRoot is returned by [Tree.Validate] when the tree has no root.
	ErrNilRoot = errors.New("tree has no root feature")

	// ErrNilMember is returned by [Tree.Validate] when a container holds a
	// nil feature or style selector.
	ErrNilMember = errors.New("container holds a nil member")

	// ErrSharedNode is returned by [Tree.Validate] when the same node is
	// owned by more than one container, or twice by the same container.
	ErrSharedNode = errors.New("node is owned more than once")
)

// Tree is a document tree rooted at a single feature, normally a [*Document].
type Tree struct {
	Root Feature
}

// NewTree returns a tree rooted at doc.
func NewTree(doc *Document) *Tree {
	return &Tree{Root: doc}
}

// Document returns the root as a document, or nil if the root is another
// kind of feature.
func (t *Tree) Document() *Document {
	d, _ := t.Root.(*Document)
	return d
}

// Validate checks structural well-formedness: a root exists, no container
// holds nil members and every node has exactly one owner.
func (t *Tree) Validate() error {
	if t == nil || t.Root == nil {
		return ErrNilRoot
	}
	seen := make(map[Node]bool)
	return validateNode(t.Root, seen)
}

func validateNode(n Node, seen map[Node]bool) error {
	if seen[n] {
		return fmt.Errorf("%w: %s %q", ErrSharedNode, n.Kind(), nodeID(n))
	}
	seen[n] = true

	c, ok := n.(Container)
	if !ok {
		return nil
	}
	m := c.Members()
	for i, f := range m.Features {
		if f == nil {
			return fmt.Errorf("%w: feature %d of %s %q", ErrNilMember, i, n.Kind(), nodeID(n))
		}
		if err := validateNode(f, seen); err != nil {
			return err
		}
	}
	for i, s := range m.StyleSelectors {
		if s == nil {
			return fmt.Errorf("%w: style selector %d of %s %q", ErrNilMember, i, n.Kind(), nodeID(n))
		}
		if err := validateNode(s, seen); err != nil {
			return err
		}
	}
	return nil
}

// MustValidate panics if the tree is not well-formed.
func (t *Tree) MustValidate() {
	if err := t.Validate(); err != nil {
		panic("kml: " + err.Error())
	}
}

func nodeID(n Node) string {
	switch n := n.(type) {
	case Feature:
		b := n.Base()
		if b.ID != "" {
			return b.ID
		}
		return b.Name
	case StyleSelector:
		return n.SelectorID()
	case *Point:
		return n.ID
	case *LineString:
		return n.ID
	}
	return ""
}

// Stats counts the nodes of a tree by kind.
type Stats struct {
	Documents    int
	Folders      int
	Placemarks   int
	Styles       int
	StyleMaps    int
	Points       int
	LineStrings  int
	Coordinates  int
	ExtendedData int
	Schemas      int
}

// Features returns the number of feature nodes.
func (s Stats) Features() int { return s.Documents + s.Folders + s.Placemarks }

// StyleSelectors returns the number of style selector nodes.
func (s Stats) StyleSelectors() int { return s.Styles + s.StyleMaps }

// Stats walks the tree and counts its nodes.
func (t *Tree) Stats() Stats {
	var s Stats
	if t == nil || t.Root == nil {
		return s
	}
	var walk func(Node)
	walk = func(n Node) {
		switch n := n.(type) {
		case *Document:
			s.Documents++
			s.Schemas += len(n.Schemas)
		case *Folder:
			s.Folders++
		case *Placemark:
			s.Placemarks++
			switch g := n.Geometry.(type) {
			case *Point:
				s.Points++
				s.Coordinates++
			case *LineString:
				s.LineStrings++
				s.Coordinates += len(g.Coordinates)
			}
		case *Style:
			s.Styles++
		case *StyleMap:
			s.StyleMaps++
		}
		if f, ok := n.(Feature); ok && !f.Base().ExtendedData.IsEmpty() {
			s.ExtendedData++
		}
		if c, ok := n.(Container); ok {
			for _, m := range c.Members().Snapshot() {
				walk(m)
			}
		}
	}
	walk(t.Root)
	return s
}
