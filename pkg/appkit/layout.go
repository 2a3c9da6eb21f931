package appkit

import "github.com/go-cacao/cacao/pkg/objc"

// LayoutAttribute identifies the edge or dimension an anchor describes.
type LayoutAttribute int

const (
	AttrTop LayoutAttribute = iota
	AttrBottom
	AttrLeading
	AttrTrailing
	AttrWidth
	AttrHeight
)

func (a LayoutAttribute) String() string {
	switch a {
	case AttrTop:
		return "top"
	case AttrBottom:
		return "bottom"
	case AttrLeading:
		return "leading"
	case AttrTrailing:
		return "trailing"
	case AttrWidth:
		return "width"
	case AttrHeight:
		return "height"
	default:
		return "unknown"
	}
}

// Anchors are passive descriptors: they record the view and attribute they
// stand for and nothing is resolved against the native layout engine until
// a constraint built from them is activated. A descriptor with a zero view
// produces constraints that activation treats as no-ops.

// LayoutAnchorY describes a horizontal edge (top or bottom) of a view.
type LayoutAnchorY struct {
	view      objc.Object
	attribute LayoutAttribute
}

// EqualTo builds a constraint pinning this edge to other's, offset by
// constant points.
func (a LayoutAnchorY) EqualTo(other LayoutAnchorY, constant float64) Constraint {
	return Constraint{
		View:           a.view,
		Attribute:      a.attribute,
		OtherView:      other.view,
		OtherAttribute: other.attribute,
		Constant:       constant,
	}
}

// LayoutAnchorX describes a vertical edge (leading or trailing) of a view.
type LayoutAnchorX struct {
	view      objc.Object
	attribute LayoutAttribute
}

// EqualTo builds a constraint pinning this edge to other's, offset by
// constant points.
func (a LayoutAnchorX) EqualTo(other LayoutAnchorX, constant float64) Constraint {
	return Constraint{
		View:           a.view,
		Attribute:      a.attribute,
		OtherView:      other.view,
		OtherAttribute: other.attribute,
		Constant:       constant,
	}
}

// LayoutAnchorDimension describes a view's width or height.
type LayoutAnchorDimension struct {
	view      objc.Object
	attribute LayoutAttribute
}

// EqualToConstant builds a constraint fixing the dimension to constant
// points.
func (a LayoutAnchorDimension) EqualToConstant(constant float64) Constraint {
	return Constraint{
		View:      a.view,
		Attribute: a.attribute,
		Constant:  constant,
	}
}

// EqualTo builds a constraint matching other's dimension, offset by
// constant points.
func (a LayoutAnchorDimension) EqualTo(other LayoutAnchorDimension, constant float64) Constraint {
	return Constraint{
		View:           a.view,
		Attribute:      a.attribute,
		OtherView:      other.view,
		OtherAttribute: other.attribute,
		Constant:       constant,
	}
}

// Constraint is a not-yet-activated layout relation between two anchors
// (or one anchor and a constant).
type Constraint struct {
	View           objc.Object
	Attribute      LayoutAttribute
	OtherView      objc.Object
	OtherAttribute LayoutAttribute
	Constant       float64
}

// Valid reports whether the constraint references an underlying view.
// Constraints built from empty handles are skipped at activation time.
func (c Constraint) Valid() bool {
	return c.View != 0
}
