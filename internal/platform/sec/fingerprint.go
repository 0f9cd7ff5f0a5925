// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint derives a stable, non-reversible key from request attributes
// such as client IP and user agent. Parts are joined with a NUL separator so
// ("ab", "c") and ("a", "bc") never collide.
func Fingerprint(parts ...string) string {
	sum := blake2b.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(sum[:16])
}
