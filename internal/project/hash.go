package project

import (
	"crypto/sha256"
)

// Digest - фиксированный 256 битный хеш (совместим с source.File.Hash)
type Digest [32]byte

// Combine строит ключ: H( content || salt1 || salt2 ... ).
// Порядок salts должен быть детерминированным.
func Combine(content Digest, salts ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range salts {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// DigestString хеширует произвольную строку (версии формата, пути поиска).
func DigestString(s string) Digest {
	return sha256.Sum256([]byte(s))
}
