// Package services defines the shared error taxonomy consumed by the
// delivery commands.
//
// Sentinel markers distinguish how a failure propagates: configuration
// problems abort before any filesystem access, missing input data warns
// and aborts cleanly, overwrite conflicts are recovered locally with a
// skip, and subprocess failures surface loudly with captured output.
// Use Wrap when raising errors from command logic so classification
// stays uniform across packages.
package services
