package position

import (
	"fmt"
	"slices"

	"github.com/matzehuels/tether/pkg/errors"
)

// Direction is the reading direction of the overlay's content.
type Direction string

const (
	LTR Direction = "ltr"
	RTL Direction = "rtl"
)

// HorizontalPos is a horizontal connection keyword. Start and end are
// resolved against the reading direction.
type HorizontalPos string

const (
	Start   HorizontalPos = "start"
	CenterX HorizontalPos = "center"
	End     HorizontalPos = "end"
)

// VerticalPos is a vertical connection keyword.
type VerticalPos string

const (
	Top     VerticalPos = "top"
	CenterY VerticalPos = "center"
	Bottom  VerticalPos = "bottom"
)

// ConnectedPosition declares which point of the origin connects to which
// point of the overlay. A strategy holds an ordered list of them, most
// preferred first.
type ConnectedPosition struct {
	OriginX  HorizontalPos `json:"originX"`
	OriginY  VerticalPos   `json:"originY"`
	OverlayX HorizontalPos `json:"overlayX"`
	OverlayY VerticalPos   `json:"overlayY"`

	// OffsetX and OffsetY override the strategy's default offsets when set.
	OffsetX *float64 `json:"offsetX,omitempty"`
	OffsetY *float64 `json:"offsetY,omitempty"`

	// PanelClass lists classes applied to the pane while this position is active.
	PanelClass []string `json:"panelClass,omitempty"`

	// Weight scales the bounding-box score under flexible dimensions. Zero means 1.
	Weight float64 `json:"weight,omitempty"`
}

// Offset returns a pointer to v, for ConnectedPosition offsets.
func Offset(v float64) *float64 { return &v }

// Below connects the origin's bottom-start corner to the overlay's top-start corner.
func Below() ConnectedPosition {
	return ConnectedPosition{OriginX: Start, OriginY: Bottom, OverlayX: Start, OverlayY: Top}
}

// Above connects the origin's top-start corner to the overlay's bottom-start corner.
func Above() ConnectedPosition {
	return ConnectedPosition{OriginX: Start, OriginY: Top, OverlayX: Start, OverlayY: Bottom}
}

// Validate checks every keyword, class name and the weight.
func (p ConnectedPosition) Validate() error {
	if err := validateHorizontal("originX", p.OriginX); err != nil {
		return err
	}
	if err := validateVertical("originY", p.OriginY); err != nil {
		return err
	}
	if err := validateHorizontal("overlayX", p.OverlayX); err != nil {
		return err
	}
	if err := validateVertical("overlayY", p.OverlayY); err != nil {
		return err
	}
	for _, c := range p.PanelClass {
		if err := errors.ValidateClassName(c); err != nil {
			return err
		}
	}
	if p.Weight < 0 {
		return errors.New(errors.ErrCodeInvalidPosition, "ConnectedPosition: weight must not be negative, got %v", p.Weight)
	}
	return nil
}

// Equal reports whether p and o describe the same position.
func (p ConnectedPosition) Equal(o ConnectedPosition) bool {
	return p.OriginX == o.OriginX && p.OriginY == o.OriginY &&
		p.OverlayX == o.OverlayX && p.OverlayY == o.OverlayY &&
		equalOffset(p.OffsetX, o.OffsetX) && equalOffset(p.OffsetY, o.OffsetY) &&
		slices.Equal(p.PanelClass, o.PanelClass) && p.Weight == o.Weight
}

// String renders the position as "originX/originY -> overlayX/overlayY".
func (p ConnectedPosition) String() string {
	return fmt.Sprintf("%s/%s -> %s/%s", p.OriginX, p.OriginY, p.OverlayX, p.OverlayY)
}

func (p ConnectedPosition) weight() float64 {
	if p.Weight == 0 {
		return 1
	}
	return p.Weight
}

func equalOffset(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// ParseHorizontal converts a keyword into a HorizontalPos. The property name
// is used in the error message.
func ParseHorizontal(property, value string) (HorizontalPos, error) {
	h := HorizontalPos(value)
	return h, validateHorizontal(property, h)
}

// ParseVertical converts a keyword into a VerticalPos.
func ParseVertical(property, value string) (VerticalPos, error) {
	v := VerticalPos(value)
	return v, validateVertical(property, v)
}

// ParseDirection converts "ltr"/"rtl" into a Direction. Empty means LTR.
func ParseDirection(value string) (Direction, error) {
	switch Direction(value) {
	case "", LTR:
		return LTR, nil
	case RTL:
		return RTL, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "invalid direction %q, expected \"ltr\" or \"rtl\"", value)
}

func validateHorizontal(property string, v HorizontalPos) error {
	switch v {
	case Start, CenterX, End:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidPosition,
		"ConnectedPosition: invalid %s %q, expected \"start\", \"end\" or \"center\"", property, v)
}

func validateVertical(property string, v VerticalPos) error {
	switch v {
	case Top, CenterY, Bottom:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidPosition,
		"ConnectedPosition: invalid %s %q, expected \"top\", \"bottom\" or \"center\"", property, v)
}
