// Package errors provides coded, actionable diagnostics for cellbind.
//
// The template engine never returns errors to the caller of Compile: a bad
// placeholder degrades one binding and rendering continues. Those conditions
// are still reported, as coded errors that are logged and counted. The same
// codes are used by the CLI, config loading and the playground.
//
// # Error Categories
//
//   - template: placeholder and binding problems found during rehydration
//   - component: component construction and mounting
//   - config: cellbind.json problems
//   - snapshot: snapshot archive and store failures
//   - playground: host server problems
//
// # Usage
//
//	err := errors.New("E001").
//	    WithDetail("callback placeholder 3f2a... was not found").
//	    WithSuggestion("Put the callback directly after an attribute name and '='")
//
//	logger.Warn("binding skipped", "err", err)
//	fmt.Println(err.Format())
package errors
