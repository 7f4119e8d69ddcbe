// Package filesystem implements the file operations behind the simple-nfs
// request handlers.
//
// This package is organized into:
//   - paths: Resolver, mapping client paths onto the exported root
//   - directory: bounded directory listings
//   - basic: create (touch / mkdir) and upload streaming
//   - operations: recursive delete
//
// Every client path goes through a Resolver before any other function here
// sees it. The Resolver canonicalizes the path (".", "..", symlinks) and,
// unless containment is disabled, rejects anything that lands outside the
// root.
//
// Example Usage:
//
//	r, err := filesystem.NewResolver("/srv/export", true)
//	dir, err := r.Resolve("/docs")
//	listing, err := filesystem.List(dir, protocol.MaxPayload)
package filesystem
