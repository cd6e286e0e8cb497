package common

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// SignatureLength number of hex characters in a file signature (8 digest bytes)
const SignatureLength = 16

// ComputeFileSignature derive the deterministic fingerprint of a file from its
// client-observable identity. The input string "{name}:{size}:{lastModifiedMillis}"
// is hashed with SHA-256 and the first 8 bytes are hex encoded (lowercase).
// Clients compute the same value on their side to resume an earlier upload,
// so the output must stay bit-identical across implementations.
func ComputeFileSignature(name string, size int64, lastModifiedMillis int64) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d:%d", name, size, lastModifiedMillis)))
	return hex.EncodeToString(sum[:8])
}
