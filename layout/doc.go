// Package layout implements a small flexbox engine that assigns every node
// of a Layoutable tree a border box and a content box.
//
// The compose pass never computes sizes; it consumes the origins and sizes
// this package produces. Positions are absolute within the root's available
// space; callers derive parent-relative origins from them.
package layout
