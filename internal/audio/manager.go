package audio

import (
	"sync"

	"github.com/encryptabit/ams/internal/artifact"
)

// Manager is C13's AudioBufferManager: it lazily decodes a chapter's audio
// file into a resident Buffer on first access (reusing the artifact
// package's Slot[T] lazy-load mechanics, audio has no on-disk save path so
// it is read-only) and can evict it on demand once the chapter is no longer
// current — audio buffers are large, per spec §4.13, so residency is opt-in
// rather than automatic.
type Manager struct {
	mu       sync.Mutex
	path     string
	slot     *artifact.Slot[Buffer]
	resident bool
}

// NewManager builds a Manager bound to a single chapter's audio file. The
// Buffer is not decoded until the first Get call.
func NewManager(audioPath string) *Manager {
	m := &Manager{path: audioPath}
	m.slot = artifact.NewSlot(m.load, m.save, false)
	return m
}

func (m *Manager) load() (*Buffer, error) {
	buf, err := Load(m.path)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.resident = true
	m.mu.Unlock()
	return buf, nil
}

// save is a no-op: audio buffers are read-only inputs, never written back.
func (m *Manager) save(*Buffer) error {
	return nil
}

// Get returns the resident Buffer, decoding it on first call.
func (m *Manager) Get() (*Buffer, error) {
	return m.slot.GetValue()
}

// Resident reports whether the buffer is currently decoded in memory.
func (m *Manager) Resident() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resident
}

// Unload evicts the decoded Buffer, freeing its memory. A subsequent Get
// re-decodes from disk.
func (m *Manager) Unload() {
	m.slot.Invalidate()
	m.mu.Lock()
	m.resident = false
	m.mu.Unlock()
}

// Path returns the audio file path this Manager decodes.
func (m *Manager) Path() string {
	return m.path
}
