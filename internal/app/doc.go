// Package app is promofinder's composition root.
//
// setup loads the TOML configuration, opens the zerolog file sink, builds the
// mock catalog source from the [source] section and creates the single
// state.Store with the configured viewer position. Two entry points share it:
//
//   - Run starts the Bubble Tea UI, which triggers the initial load itself
//     and owns the notification timers
//   - RunList loads synchronously, applies the requested filters through the
//     store actions and prints the selector output as a table
//
// Errors from setup are wrapped and returned to main. A failed catalog load is
// not an error for Run (the UI shows it and offers a retry) but is for
// RunList, which returns ErrLoadFailed so the command exits non-zero.
package app
