// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pointer builds optional values for partial-update inputs.
package pointer

// To returns a pointer to v.
func To[T any](v T) *T {
	return &v
}
