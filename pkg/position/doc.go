// Package position implements connected overlay positioning.
//
// A [Strategy] places an overlay pane next to an origin (an element, a
// point or a rectangle) by trying an ordered list of [ConnectedPosition]
// candidates. Each candidate names a corner or edge midpoint of the origin
// and the point of the overlay that should touch it:
//
//	below := position.ConnectedPosition{
//	    OriginX:  position.Start, OriginY:  position.Bottom,
//	    OverlayX: position.Start, OverlayY: position.Top,
//	}
//
// # Selection
//
// On every [Strategy.Apply] the candidates are evaluated in order against
// the viewport, shrunk by the configured margin:
//
//  1. The first candidate that fits completely wins.
//  2. With flexible dimensions, candidates that fit once the overlay shrinks
//     to its minimum size are scored by the area of their bounding box times
//     their weight; the highest score wins.
//  3. With push enabled, the candidate with the largest visible area is
//     pushed back on-screen.
//  4. Otherwise the candidate with the largest visible area is used as is.
//
// A locked strategy keeps the first chosen candidate on later passes.
//
// # Styles
//
// The strategy writes CSS-like inline styles onto the pane and its host
// element (see package dom). In exact mode the pane gets top/left or
// bottom/right insets; in flexible mode the host becomes a flex box sized
// to the available space and the pane is aligned inside it.
//
// Position changes are published on [Strategy.PositionChanges] together
// with the scroll visibility of origin and overlay.
package position
