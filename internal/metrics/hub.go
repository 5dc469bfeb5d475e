package metrics

// SetWSConnections reports the number of live hub connections
func (m *Metrics) SetWSConnections(n int) {
	m.safeExecute("SetWSConnections", func() {
		m.WSConnectionsActive.Set(float64(n))
	})
}

func (m *Metrics) IncrementChatBroadcast() {
	m.safeExecute("IncrementChatBroadcast", func() {
		m.ChatMessagesBroadcast.Inc()
	})
}

// RecordChatPersist counts one persistence attempt of the durability pipeline
func (m *Metrics) RecordChatPersist(err error) {
	m.safeExecute("RecordChatPersist", func() {
		if err != nil {
			m.ChatMessagePersistFailure.Inc()
			return
		}
		m.ChatMessagesPersisted.Inc()
	})
}
