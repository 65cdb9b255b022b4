package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/fluxion-ai/fluxion/pkg/eventbus"
	"github.com/fluxion-ai/fluxion/pkg/events"
	"github.com/fluxion-ai/fluxion/pkg/mocks"
	"github.com/fluxion-ai/fluxion/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func publishedEventTypes(bus *mocks.MockEventBus) []events.EventType {
	types := make([]events.EventType, 0, len(bus.Calls))

	for _, call := range bus.Calls {
		if call.Method != "Publish" {
			continue
		}

		event, ok := call.Arguments.Get(2).(eventbus.Event)
		if !ok {
			continue
		}

		types = append(types, event.GetType())
	}

	return types
}

func TestExecute_PublishesRunLifecycleEvents(t *testing.T) {
	var bCalls int

	catalog, instances, wf := twoNodeFixture(&bCalls)

	bus := &mocks.MockEventBus{}
	bus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	executor := NewExecutor(testLogger(), catalog, instances).WithPublisher(bus)

	_, err := executor.Run(context.Background(), wf, nil)
	require.NoError(t, err)

	assert.Equal(t, []events.EventType{
		events.RunStartedEvent,
		events.NodeStartedEvent,
		events.NodeCompletedEvent,
		events.NodeStartedEvent,
		events.NodeCompletedEvent,
		events.RunCompletedEvent,
	}, publishedEventTypes(bus))
}

func TestExecute_PublishesNodeAndRunFailure(t *testing.T) {
	var bCalls int

	catalog, instances, wf := twoNodeFixture(&bCalls)
	instances["producer"] = &fakeNode{id: "producer", process: func(*models.ExecutionContext) error {
		return errors.New("boom")
	}}

	bus := &mocks.MockEventBus{}
	bus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	executor := NewExecutor(testLogger(), catalog, instances).WithPublisher(bus)

	_, err := executor.Run(context.Background(), wf, nil)
	require.Error(t, err)

	types := publishedEventTypes(bus)
	assert.Contains(t, types, events.NodeFailedEvent)
	assert.Equal(t, events.RunFailedEvent, types[len(types)-1])
}

func TestExecute_PublishErrorDoesNotFailRun(t *testing.T) {
	var bCalls int

	catalog, instances, wf := twoNodeFixture(&bCalls)

	bus := &mocks.MockEventBus{}
	bus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("transport down"))

	executor := NewExecutor(testLogger(), catalog, instances).WithPublisher(bus)

	_, err := executor.Run(context.Background(), wf, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, bCalls)
}
