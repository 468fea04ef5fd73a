package dom

import (
	"slices"
	"strings"

	"github.com/matzehuels/tether/pkg/geom"
)

// Box is what the placement engine needs from an element: a rendered
// rectangle, style access, class toggling and a descendant query.
type Box interface {
	Rect() geom.Rect
	Style(prop string) string
	SetStyle(prop, value string)
	AddClass(names ...string)
	RemoveClass(names ...string)
	HasClass(name string) bool
	QueryAll(selector string) []Box
}

// Document owns a viewport, class rules and the elements created from it.
type Document struct {
	viewport *Viewport
	rules    map[string]Style
}

// NewDocument creates a document bound to v.
func NewDocument(v *Viewport) *Document {
	return &Document{viewport: v, rules: make(map[string]Style)}
}

// Viewport returns the document's viewport.
func (d *Document) Viewport() *Viewport { return d.viewport }

// DefineClass registers base styles applied to every element carrying class.
// Inline styles take precedence.
func (d *Document) DefineClass(class string, s Style) {
	d.rules[class] = s.Clone()
}

// CreateElement creates a detached element owned by d.
func (d *Document) CreateElement(tag string) *Element {
	return &Element{Tag: tag, doc: d, style: make(Style)}
}

// Element is an in-memory box.
//
// An element either has a fixed rectangle in document coordinates (set with
// SetRect, used for origins and scroll containers) or is laid out from its
// styles inside its parent.
type Element struct {
	Tag string
	ID  string

	doc      *Document
	parent   *Element
	children []*Element
	classes  []string
	style    Style

	intrinsic geom.Size
	fixed     *geom.Rect
	pinned    bool
}

// AppendChild adds child as the last child of e.
func (e *Element) AppendChild(child *Element) *Element {
	if child.parent != nil {
		child.parent.removeChild(child)
	}
	child.parent = e
	e.children = append(e.children, child)
	return child
}

func (e *Element) removeChild(child *Element) {
	e.children = slices.DeleteFunc(e.children, func(c *Element) bool { return c == child })
	child.parent = nil
}

// Parent returns the parent element, or nil.
func (e *Element) Parent() *Element { return e.parent }

// Children returns the child elements.
func (e *Element) Children() []*Element { return e.children }

// SetSize sets the intrinsic content size.
func (e *Element) SetSize(width, height float64) *Element {
	e.intrinsic = geom.Size{Width: width, Height: height}
	return e
}

// IntrinsicSize returns the content size set with SetSize.
func (e *Element) IntrinsicSize() geom.Size { return e.intrinsic }

// SetRect fixes the element at r in document coordinates. Unless pinned,
// the element moves with the document scroll offset.
func (e *Element) SetRect(r geom.Rect) *Element {
	e.fixed = &r
	e.intrinsic = r.Size()
	return e
}

// Pin makes a fixed element ignore scrolling, like position: fixed.
func (e *Element) Pin() *Element {
	e.pinned = true
	return e
}

// MoveBy translates a fixed element.
func (e *Element) MoveBy(dx, dy float64) {
	if e.fixed != nil {
		r := e.fixed.Translate(dx, dy)
		e.fixed = &r
	}
}

// Style returns the computed value of prop: the inline value if set,
// otherwise the first class rule defining it.
func (e *Element) Style(prop string) string {
	if v := e.style[prop]; v != "" {
		return v
	}
	if e.doc == nil {
		return ""
	}
	for _, c := range e.classes {
		if v := e.doc.rules[c][prop]; v != "" {
			return v
		}
	}
	return ""
}

// InlineStyle returns a copy of the inline style declarations.
func (e *Element) InlineStyle() Style { return e.style.Clone() }

// SetStyle sets an inline property. An empty value clears it.
func (e *Element) SetStyle(prop, value string) {
	if value == "" {
		delete(e.style, prop)
		return
	}
	e.style[prop] = value
}

// AddClass adds class names, ignoring duplicates and empty names.
func (e *Element) AddClass(names ...string) {
	for _, n := range names {
		if n != "" && !slices.Contains(e.classes, n) {
			e.classes = append(e.classes, n)
		}
	}
}

// RemoveClass removes class names.
func (e *Element) RemoveClass(names ...string) {
	e.classes = slices.DeleteFunc(e.classes, func(c string) bool {
		return slices.Contains(names, c)
	})
}

// HasClass reports whether e carries name.
func (e *Element) HasClass(name string) bool { return slices.Contains(e.classes, name) }

// Classes returns a copy of the class list.
func (e *Element) Classes() []string { return slices.Clone(e.classes) }

// Matches reports whether e matches a simple selector: "*", "tag",
// ".class" or "#id".
func (e *Element) Matches(selector string) bool {
	selector = strings.TrimSpace(selector)
	switch {
	case selector == "*":
		return true
	case strings.HasPrefix(selector, "."):
		return e.HasClass(selector[1:])
	case strings.HasPrefix(selector, "#"):
		return e.ID != "" && e.ID == selector[1:]
	default:
		return strings.EqualFold(e.Tag, selector)
	}
}

// QueryAll returns every descendant of e matching selector, in document order.
func (e *Element) QueryAll(selector string) []Box {
	var out []Box
	var walk func(*Element)
	walk = func(n *Element) {
		for _, c := range n.children {
			if c.Matches(selector) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(e)
	return out
}

// Rect returns the element's rendered rectangle in client coordinates.
func (e *Element) Rect() geom.Rect {
	if e.fixed != nil {
		r := *e.fixed
		if !e.pinned && e.doc != nil {
			s := e.doc.viewport.ScrollPosition()
			r = r.Translate(-s.X, -s.Y)
		}
		return r
	}

	var cb geom.Rect
	switch {
	case e.parent != nil:
		cb = e.parent.Rect()
	case e.doc != nil:
		cb = e.doc.viewport.Rect()
	}

	var r geom.Rect
	if e.parent != nil && e.parent.Style("display") == "flex" && e.Style("position") == "static" {
		r = e.flexItemRect(cb)
	} else {
		r = e.absoluteRect(cb)
	}

	dx, dy := ParseTranslate(e.Style("transform"))
	return r.Translate(dx, dy)
}

var _ Box = (*Element)(nil)
