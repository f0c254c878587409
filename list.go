package pocat

// MessageList is an ordered key-to-message collection. Iteration order is
// insertion order, never sorted.
type MessageList struct {
	order []Key
	byKey map[Key]*Message
}

func newMessageList() *MessageList {
	return &MessageList{byKey: make(map[Key]*Message)}
}

// Len returns the number of stored messages.
func (l *MessageList) Len() int { return len(l.order) }

// Get returns the message stored under key, or nil.
func (l *MessageList) Get(key Key) *Message { return l.byKey[key] }

// Keys returns the stored keys in insertion order.
func (l *MessageList) Keys() []Key {
	return append([]Key(nil), l.order...)
}

// Messages returns the stored messages in insertion order.
func (l *MessageList) Messages() []*Message {
	out := make([]*Message, 0, len(l.order))
	for _, k := range l.order {
		out = append(out, l.byKey[k])
	}
	return out
}

func (l *MessageList) set(key Key, m *Message) {
	if _, ok := l.byKey[key]; !ok {
		l.order = append(l.order, key)
	}
	l.byKey[key] = m
}

func (l *MessageList) delete(key Key) {
	if _, ok := l.byKey[key]; !ok {
		return
	}
	delete(l.byKey, key)
	for i, k := range l.order {
		if k == key {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

func (l *MessageList) clear() {
	l.order = l.order[:0]
	l.byKey = make(map[Key]*Message)
}
