// Package events defines the search lifecycle events emitted on the event bus
// and the messages of the control protocol.
//
// Bus events:
//   - Started: a request began running
//   - Progress: periodic step count and date-set count of the active run
//   - Result: terminal outcome of a run (completed, aborted or cancelled)
//   - Failure: terminal fault of a run
//   - StateChanged: any transition of the controller state machine
//
// Wire messages mirror the bus events one to one and carry JSON tags.
package events
