// Package fanout maps a slice through an asynchronous function with bounded
// concurrency.
//
// Items are processed in fixed-size windows: every call in a window runs
// concurrently and the whole window settles before the next one starts, so
// peak concurrency never exceeds the window size and is easy to reason about.
// Each item's outcome is recorded independently. A failing or panicking call
// never cancels its siblings.
package fanout
