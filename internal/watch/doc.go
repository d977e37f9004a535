// SPDX-License-Identifier: MPL-2.0

// Package watch rebuilds on filesystem changes.
//
// A Watcher monitors every directory below a base directory and invokes a
// callback once the tree has been quiet for the debounce period. Events that
// arrive inside the window are coalesced into one call carrying the full set
// of changed paths.
package watch
