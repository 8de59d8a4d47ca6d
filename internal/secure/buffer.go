package secure

import (
	"errors"
	"sync"

	"github.com/awnumar/memguard"
)

// ErrBufferDestroyed is returned by Open after Destroy has been called.
var ErrBufferDestroyed = errors.New("secure buffer already destroyed")

// Buffer wraps memguard.Enclave to keep a credential encrypted in memory
// and protected from swapping via mlock. The enclave has no direct destroy
// operation; Destroy marks the buffer unusable and memguard.Purge() at
// process exit wipes everything.
type Buffer struct {
	enclave   *memguard.Enclave
	mu        sync.RWMutex
	destroyed bool
}

// NewBuffer copies data into a protected memory region. The caller should
// zero its own copy afterwards.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{enclave: memguard.NewEnclave(data)}
}

// NewBufferFromString is a convenience wrapper for string credentials.
func NewBufferFromString(s string) *Buffer {
	return NewBuffer([]byte(s))
}

// Open decrypts the credential into a locked buffer. The caller MUST call
// Destroy() on the returned LockedBuffer once the value has been used:
//
//	locked, err := buf.Open()
//	if err != nil {
//	    return err
//	}
//	defer locked.Destroy()
//	password := locked.String()
func (b *Buffer) Open() (*memguard.LockedBuffer, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.destroyed {
		return nil, ErrBufferDestroyed
	}
	return b.enclave.Open()
}

// Destroy marks this Buffer as destroyed and prevents further use.
// Idempotent; after Destroy, Open fails with ErrBufferDestroyed.
func (b *Buffer) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.destroyed {
		return
	}
	b.enclave = nil
	b.destroyed = true
}
