package xmlconfig

import (
	"reflect"

	"github.com/beevik/etree"
)

// RootTag is the tag of the top-level element of every configuration document.
const RootTag = "configuration"

// Fragment is one unit of device configuration that can produce an XML element.
type Fragment interface {
	ToXMLElement() *etree.Element
}

// Node is a Fragment backed by an element that already exists.
type Node struct {
	el *etree.Element
}

// NewNode wraps an existing element as a Fragment.
func NewNode(el *etree.Element) Node {
	return Node{el: el}
}

// Element returns the wrapped element.
func (n Node) Element() *etree.Element {
	return n.el
}

// ToXMLElement returns the wrapped element.
func (n Node) ToXMLElement() *etree.Element {
	return n.el
}

// Serialize renders the fragments as one configuration document.
//
// A single Node (or *Node) whose element is already a configuration root is
// rendered as is, so a document produced earlier is not wrapped a second time.
func Serialize(fragments []Fragment) (string, error) {
	if len(fragments) == 1 {
		if el, ok := nodeElement(fragments[0]); ok && isRoot(el) {
			return Render(el)
		}
	}

	root, err := Build(fragments)
	if err != nil {
		return "", err
	}
	return Render(root)
}

// Build creates a new configuration root holding a copy of every fragment's
// element, in input order. The fragments themselves are left untouched.
func Build(fragments []Fragment) (*etree.Element, error) {
	root := etree.NewElement(RootTag)
	for i, f := range fragments {
		el := element(f)
		if el == nil {
			return nil, &ConfigurationError{Index: i, Err: ErrInvalidFragment}
		}
		root.AddChild(el.Copy())
	}
	return root, nil
}

// Render returns the UTF-8 text of el without an XML declaration.
func Render(el *etree.Element) (string, error) {
	if el == nil {
		return "", &ConfigurationError{Index: 0, Err: ErrInvalidFragment}
	}
	doc := etree.NewDocument()
	doc.SetRoot(el.Copy())
	return doc.WriteToString()
}

// TextSubElement appends a child element holding text to parent.
func TextSubElement(parent *etree.Element, tag, text string, attrs ...etree.Attr) *etree.Element {
	child := parent.CreateElement(tag)
	for _, a := range attrs {
		child.CreateAttr(a.Key, a.Value)
	}
	child.SetText(text)
	return child
}

// element returns the element of f, or nil when f cannot produce one. A nil
// interface and a typed nil pointer both count as missing.
func element(f Fragment) *etree.Element {
	if isNil(f) {
		return nil
	}
	if el, ok := nodeElement(f); ok {
		return el
	}
	return f.ToXMLElement()
}

func nodeElement(f Fragment) (*etree.Element, bool) {
	switch v := f.(type) {
	case Node:
		return v.el, true
	case *Node:
		if v == nil {
			return nil, false
		}
		return v.el, true
	}
	return nil, false
}

func isNil(f Fragment) bool {
	if f == nil {
		return true
	}
	v := reflect.ValueOf(f)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return v.IsNil()
	}
	return false
}

func isRoot(el *etree.Element) bool {
	return el != nil && el.FullTag() == RootTag
}
