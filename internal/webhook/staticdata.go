package webhook

import "sync"

// StaticData is the per-workflow state the host keeps between lifecycle
// calls. Only the registration id is stored.
type StaticData interface {
	WebhookID() string
	SetWebhookID(id string)
	ClearWebhookID()
}

// MemoryStaticData keeps the registration id in memory.
type MemoryStaticData struct {
	mu sync.Mutex
	id string
}

// NewMemoryStaticData returns state seeded with id, which may be empty.
func NewMemoryStaticData(id string) *MemoryStaticData {
	return &MemoryStaticData{id: id}
}

func (m *MemoryStaticData) WebhookID() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.id
}

func (m *MemoryStaticData) SetWebhookID(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.id = id
}

func (m *MemoryStaticData) ClearWebhookID() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.id = ""
}
