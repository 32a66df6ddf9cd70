// Package geometry caches the last measured bounds of each focusable region.
//
// Measuring a region is a host call (layout query, websocket round trip), so
// the navigator reads cached rectangles and only re-measures on a miss, after
// InvalidateGeometry, or when an optional TTL expires.
package geometry
