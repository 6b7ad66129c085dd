package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prperemyshlev/user-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordingJSONPublisher struct {
	published []any
	err       error
}

func (p *recordingJSONPublisher) PublishJSON(_ context.Context, v any) error {
	p.published = append(p.published, v)
	return p.err
}

func TestBrokerStatusPublisher(t *testing.T) {
	broker := &recordingJSONPublisher{}
	event := domain.StatusChangedEvent{UserID: 3, NewStatus: true, Timestamp: fixedNow, Action: domain.ActionUpdateStatus}

	require.NoError(t, NewBrokerStatusPublisher(broker).PublishStatusChanged(context.Background(), event))
	assert.Equal(t, []any{event}, broker.published)

	broker.err = errors.New("channel closed")
	err := NewBrokerStatusPublisher(broker).PublishStatusChanged(context.Background(), event)
	assert.ErrorIs(t, err, broker.err)
	assert.Contains(t, err.Error(), "user 3")
}

func TestLogStatusPublisher(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	event := domain.StatusChangedEvent{UserID: 3, NewStatus: false, Timestamp: fixedNow, Action: domain.ActionUpdateStatus}

	require.NoError(t, NewLogStatusPublisher(zap.New(core)).PublishStatusChanged(context.Background(), event))

	entries := logs.FilterMessage("User status changed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(3), entries[0].ContextMap()["user_id"])
	assert.Equal(t, false, entries[0].ContextMap()["new_status"])
}
