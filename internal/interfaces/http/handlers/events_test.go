package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/netmodel/internal/application/matching"
	"github.com/turtacn/netmodel/internal/application/modelformat"
	"github.com/turtacn/netmodel/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/netmodel/internal/testutil"
	"github.com/turtacn/netmodel/pkg/errors"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishRun(ctx context.Context, ev *kafka.RunEvent) error {
	return m.Called(ctx, ev).Error(0)
}

func TestReactionHandler_MatchPublishesEvent(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("PublishRun", mock.Anything, mock.MatchedBy(func(ev *kafka.RunEvent) bool {
		return ev.Kind == kafka.RunKindMatch && ev.Comparisons == 4 && ev.Matches == 2 && ev.RunID != ""
	})).Return(nil).Once()

	h := NewReactionHandler(matching.Options{}, nil, nil, nil).WithEvents(pub)
	w := doJSON(t, newEngine(h.RegisterRoutes), http.MethodPost, "/reactions/match", MatchRequest{Model1: netModelA, Model2: netModelB})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	pub.AssertExpectations(t)
}

func TestModelHandler_FormatPublishFailureIsLogged(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("PublishRun", mock.Anything, mock.MatchedBy(func(ev *kafka.RunEvent) bool {
		return ev.Kind == kafka.RunKindFormat && ev.Counts[modelformat.StatusWritten] == 1
	})).Return(errors.New(errors.ErrCodeMessaging, "broker down")).Once()

	logger := testutil.NewMockLogger()
	h := newModelHandler(t, nil, logger).WithEvents(pub)

	w := doJSON(t, newEngine(h.RegisterRoutes), http.MethodPost, "/models/format", FormatRequest{
		Metabolites:  metaboliteTSV,
		Reactions:    reactionTSV,
		Compartments: compartmentTSV,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	pub.AssertExpectations(t)
	assert.True(t, logger.HasMessage("warn", "Run event not published"))
}
