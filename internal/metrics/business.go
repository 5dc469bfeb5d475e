package metrics

func (m *Metrics) IncrementBoardCreated() {
	m.safeExecute("IncrementBoardCreated", func() {
		m.BoardCreatedTotal.Inc()
	})
}

func (m *Metrics) IncrementCardMoved() {
	m.safeExecute("IncrementCardMoved", func() {
		m.CardMovedTotal.Inc()
	})
}

func (m *Metrics) IncrementFriendCodeIssued() {
	m.safeExecute("IncrementFriendCodeIssued", func() {
		m.FriendCodesIssuedTotal.Inc()
	})
}

func (m *Metrics) IncrementBlobRemoveFailure() {
	m.safeExecute("IncrementBlobRemoveFailure", func() {
		m.BlobRemoveFailures.Inc()
	})
}

// RecordOrphansSwept counts one sweep pass; kind is "row" or "blob"
func (m *Metrics) RecordOrphansSwept(kind string, n int) {
	if n == 0 {
		return
	}
	m.safeExecute("RecordOrphansSwept", func() {
		m.OrphansSweptTotal.WithLabelValues(kind).Add(float64(n))
	})
}

func (m *Metrics) SetBoardsTotal(count int64) {
	m.safeExecute("SetBoardsTotal", func() {
		m.BoardsTotal.Set(float64(count))
	})
}

func (m *Metrics) SetUsersTotal(count int64) {
	m.safeExecute("SetUsersTotal", func() {
		m.UsersTotal.Set(float64(count))
	})
}

func (m *Metrics) SetConversationsTotal(count int64) {
	m.safeExecute("SetConversationsTotal", func() {
		m.ConversationsTotal.Set(float64(count))
	})
}
