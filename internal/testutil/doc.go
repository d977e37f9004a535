// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Fixture trees are created with WriteTree; deterministic volume timestamps
// come from FakeClock.
package testutil
