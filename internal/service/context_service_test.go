package service

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supportbot/chatbot-go/internal/model"
	"go.uber.org/zap"
)

func newTestContextService() *ContextService {
	return NewContextService(5, 30*time.Minute, zap.NewNop())
}

func TestGetContextCreatesEmpty(t *testing.T) {
	s := newTestContextService()
	defer s.Close()

	ctx := s.GetContext("s1")
	require.NotNil(t, ctx)
	assert.Equal(t, "s1", ctx.SessionID)
	assert.Empty(t, ctx.Turns)
	assert.Equal(t, 1, s.ActiveSessions())
}

func TestUpdateTrimsToMaxTurns(t *testing.T) {
	s := newTestContextService()
	defer s.Close()

	for i := 1; i <= 6; i++ {
		s.Update("s1", model.Turn{
			Text:      fmt.Sprintf("turn %d", i),
			Intent:    model.IntentQuestion,
			Timestamp: time.Now(),
		}, fmt.Sprintf("r%d", i))
	}

	ctx := s.GetContext("s1")
	require.Len(t, ctx.Turns, 5)
	// FIFO：第 1 轮被淘汰，保留 2-6
	assert.Equal(t, "turn 2", ctx.Turns[0].Text)
	assert.Equal(t, "turn 6", ctx.Turns[4].Text)
	assert.Equal(t, model.IntentQuestion, ctx.LastIntent)
	assert.Equal(t, "r6", ctx.LastRecordID)
}

func TestGetContextReturnsSnapshot(t *testing.T) {
	s := newTestContextService()
	defer s.Close()

	s.Update("s1", model.Turn{Text: "hello"}, "r1")

	ctx := s.GetContext("s1")
	ctx.Turns[0].Text = "mutated"
	ctx.PendingSlot = "mutated"

	again := s.GetContext("s1")
	assert.Equal(t, "hello", again.Turns[0].Text)
	assert.Empty(t, again.PendingSlot)
}

func TestLastRecordID(t *testing.T) {
	s := newTestContextService()
	defer s.Close()

	_, ok := s.LastRecordID("nobody")
	assert.False(t, ok)

	s.GetContext("s1") // 创建了空上下文但还没有记录
	_, ok = s.LastRecordID("s1")
	assert.False(t, ok)

	s.Update("s1", model.Turn{Text: "hi"}, "r1")
	id, ok := s.LastRecordID("s1")
	require.True(t, ok)
	assert.Equal(t, "r1", id)
}

func TestSetPendingSlot(t *testing.T) {
	s := newTestContextService()
	defer s.Close()

	s.SetPendingSlot("s1", "DATE")
	assert.Equal(t, "DATE", s.GetContext("s1").PendingSlot)
}

func TestExpireRemovesSession(t *testing.T) {
	s := newTestContextService()
	defer s.Close()

	s.Update("s1", model.Turn{Text: "hi"}, "r1")
	require.Equal(t, 1, s.ActiveSessions())

	s.Expire("s1")
	assert.Equal(t, 0, s.ActiveSessions())

	// 过期后重新访问得到全新上下文
	assert.Empty(t, s.GetContext("s1").Turns)
}

func TestSessionsIsolated(t *testing.T) {
	s := newTestContextService()
	defer s.Close()

	s.Update("a", model.Turn{Text: "from a"}, "ra")
	s.Update("b", model.Turn{Text: "from b"}, "rb")

	assert.Equal(t, "from a", s.GetContext("a").Turns[0].Text)
	assert.Equal(t, "from b", s.GetContext("b").Turns[0].Text)
}

func TestConcurrentUpdates(t *testing.T) {
	s := newTestContextService()
	defer s.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sessionID := fmt.Sprintf("s%d", i%4)
			s.Update(sessionID, model.Turn{Text: "x"}, fmt.Sprintf("r%d", i))
			s.GetContext(sessionID)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 4, s.ActiveSessions())
	for i := 0; i < 4; i++ {
		turns := s.GetContext(fmt.Sprintf("s%d", i)).Turns
		assert.LessOrEqual(t, len(turns), 5)
	}
}
