// Package geom provides the value types and pure functions used by the
// overlay placement engine.
//
// All coordinates are in CSS pixels relative to the viewport, with the y axis
// growing downwards. Rectangles are immutable snapshots: every placement pass
// measures fresh ones.
//
// # Core Types
//
//   - [Rect]: axis-aligned box with explicit edges and dimensions
//   - [Point]: 2-D location used for connection points and push amounts
//   - [Size]: width/height pair used for intrinsic overlay sizes
//
// # Functions
//
//   - [RoundRect]: floors every field before comparing against the viewport
//   - [SubtractOverflows]: visible extent of an axis after clamped overflows
//   - [ClippedByScrolling], [ScrolledOutsideView]: scroll-container visibility
package geom
