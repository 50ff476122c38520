package persistance

import "sync"

type MemoryStore struct {
	mu       sync.Mutex
	Data     []byte
	ReadErr  error
	WriteErr error
	Writes   int
}

func (m *MemoryStore) Read() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.Data, m.ReadErr
}

func (m *MemoryStore) Write(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Writes++
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.Data = data
	return nil
}

func (m *MemoryStore) Remove() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Data = nil
	return nil
}

func (m *MemoryStore) Location() string {
	return "memory"
}
