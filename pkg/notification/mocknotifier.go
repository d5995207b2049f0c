package notification

import "sync"

// MockNotifier records sent notices for tests.
type MockNotifier struct {
	mu    sync.Mutex
	Sent  []SentNotice
	Error error
}

type SentNotice struct {
	Type NoticeType
	Data NotificationData
}

func (m *MockNotifier) Send(noticeType NoticeType, notification NotificationData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentNotice{Type: noticeType, Data: notification})
	return m.Error
}

// SentTypes returns the notice types in send order.
func (m *MockNotifier) SentTypes() []NoticeType {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]NoticeType, len(m.Sent))
	for i, s := range m.Sent {
		types[i] = s.Type
	}
	return types
}
