// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package cerrs defines constant error types using a custom Error string type.
// It centralizes the fixed fatal-error taxonomy for the OTBM codec so callers
// can compare with errors.Is() instead of matching error strings.
package cerrs
