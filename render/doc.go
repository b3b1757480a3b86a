// Package render projects poller snapshots into displayable views.
//
// Project is a pure function: the same snapshot always yields the same
// View. Write prints a View as plain text, one segment per block:
//
//	00:00:00 - 00:00:02 [en] - neutral
//	hello
package render
