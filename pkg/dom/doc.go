// Package dom provides in-memory host collaborators for the placement engine.
//
// The placement engine in pkg/position never creates nodes itself; it reads
// rectangles and writes CSS-like properties through the [Box] interface.
// This package supplies a small document model that satisfies it:
//
//   - [Document]: owns a [Viewport] and a set of class rules
//   - [Element]: a box with inline styles, classes, children and an
//     intrinsic size; [Element.Rect] resolves the written styles back into a
//     rendered rectangle so re-measurement after a placement pass works
//   - [Viewport]: the ruler reporting viewport size and scroll position and
//     notifying listeners when the viewport is resized
//
// The resolver understands exactly the properties the engine writes:
// top/left/bottom/right, width/height, max-width/max-height, position,
// transform (translateX/translateY) and, for flex containers, align-items and
// justify-content along a column axis.
package dom
