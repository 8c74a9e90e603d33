package blake2

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"creature-registry/internal/ports/randomness"

	"golang.org/x/crypto/blake2b"
)

const seedLen = 32

// Source deriva 16 bytes con blake2b-128 usando la semilla como key
// sobre (cuenta, salt, índice de llamada). El índice crece en cada Seed,
// así dos llamadas con el mismo contexto no repiten valor.
type Source struct {
	mu    sync.Mutex
	key   []byte
	nonce uint64
}

var _ randomness.Source = (*Source)(nil)

// New usa seed como key (1..64 bytes). Con seed vacío toma 32 bytes de crypto/rand.
func New(seed []byte) (*Source, error) {
	if len(seed) == 0 {
		seed = make([]byte, seedLen)
		if _, err := rand.Read(seed); err != nil {
			return nil, fmt.Errorf("blake2: read seed: %w", err)
		}
	}
	if len(seed) > blake2b.Size {
		return nil, errors.New("blake2: seed longer than 64 bytes")
	}
	return &Source{key: append([]byte(nil), seed...)}, nil
}

func (s *Source) Seed(ctx context.Context, account, salt string) [16]byte {
	s.mu.Lock()
	n := s.nonce
	s.nonce++
	s.mu.Unlock()

	// la key ya fue validada en New
	h, _ := blake2b.New(16, s.key)

	var buf []byte
	buf = binary.AppendUvarint(buf, uint64(len(account)))
	buf = append(buf, account...)
	buf = binary.AppendUvarint(buf, uint64(len(salt)))
	buf = append(buf, salt...)
	buf = binary.BigEndian.AppendUint64(buf, n)
	_, _ = h.Write(buf)

	var out [16]byte
	copy(out[:], h.Sum(nil))
	return out
}
