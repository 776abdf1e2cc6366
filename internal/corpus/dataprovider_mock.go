package corpus

import (
	"io/fs"
)

// MockDataProvider serves bundled files from memory, for tests that need a
// corpus other than the embedded one.
type MockDataProvider struct {
	files map[string][]byte
}

func NewMockDataProvider() *MockDataProvider {
	return &MockDataProvider{files: make(map[string][]byte)}
}

func (m *MockDataProvider) AddFile(name string, content []byte) {
	m.files[name] = content
}

func (m *MockDataProvider) ReadFile(name string) ([]byte, error) {
	if content, ok := m.files[name]; ok {
		return content, nil
	}
	return nil, fs.ErrNotExist
}
