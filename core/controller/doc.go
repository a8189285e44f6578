// Package controller supervises search runs. A Controller tracks exactly one
// active request at a time and drives it through the states
//
//	idle -> running -> completed | aborted | cancelled | failed
//
// Starting a new request supersedes the active one, which then terminates as
// cancelled. Progress is published on the event bus without blocking the
// search; terminal events are delivered with a bounded wait.
package controller
