// Package event provides a pub-sub event bus for the refresh pipeline's
// progress and result side channel.
//
// The refresh orchestrator publishes events as it moves through its stages;
// the CLI, logs, or any other observer subscribes without the orchestrator
// knowing who is listening. A single listener per event kind is the common
// case, but the bus supports any number of observers.
//
// # Main Types
//
//   - [Event]: Interface that all events must implement, providing EventType() and Timestamp()
//   - [Bus]: Synchronous pub-sub event dispatcher with thread-safe operations
//   - [Handler]: Function type for event handlers (func(Event))
//
// # Event Kinds
//
//   - [InfoEvent]: human-readable progress (object counts, stubs written)
//   - [StderrEvent]: human-readable failure text, paired with every error
//   - [ErrorEvent]: the structured error for programmatic handling
//   - [ExitEvent]: terminal status code, emitted exactly once, always last
//   - [StageChangedEvent]: pipeline stage transitions for finer-grained observers
//
// # Thread Safety
//
// The [Bus] type is safe for concurrent use. Handlers are called
// synchronously and protected against panics - a panicking handler will not
// prevent other handlers from being called.
//
// # Basic Usage
//
//	bus := event.NewBus()
//
//	bus.Subscribe(event.TypeInfo, func(e event.Event) {
//	    fmt.Println(e.(event.InfoEvent).Message)
//	})
//
//	bus.Subscribe(event.TypeExit, func(e event.Event) {
//	    code := e.(event.ExitEvent).Code
//	    ...
//	})
//
// # Event Type Naming Convention
//
// Event types follow the pattern "category.action":
//   - refresh.info, refresh.stderr, refresh.error, refresh.exit
//   - refresh.stage_changed
package event
