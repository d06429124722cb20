package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestEventDeliveryIntegration tests the complete event flow from TransactionalBus to main Bus
func TestEventDeliveryIntegration(t *testing.T) {
	// Create main event bus
	mainBus := NewBus()

	// Create transactional bus that wraps the main bus
	transactionalBus := NewTransactionalBus(mainBus)

	// Set up a channel to capture received events
	eventReceived := make(chan LevelUpEvent, 1)
	var wg sync.WaitGroup
	wg.Add(1)

	// Subscribe to level-up events on the main bus
	mainBus.Subscribe(EventTypeLevelUp, func(ctx context.Context, event Event) {
		defer wg.Done()
		if levelUpEvent, ok := event.(LevelUpEvent); ok {
			select {
			case eventReceived <- levelUpEvent:
			case <-time.After(1 * time.Second):
				t.Error("Timeout sending event to channel")
			}
		} else {
			t.Errorf("Expected LevelUpEvent, got %T", event)
		}
	})

	// Create a test event
	testEvent := LevelUpEvent{
		UserID:   123456,
		OldLevel: 4,
		NewLevel: 5,
	}

	// Publish event to transactional bus (simulating service layer)
	transactionalBus.Publish(testEvent)

	// Flush events (simulating successful transaction commit)
	ctx := context.Background()
	err := transactionalBus.Flush(ctx)
	assert.NoError(t, err)

	// Wait for event to be processed
	wg.Wait()

	// Verify the event was received
	select {
	case receivedEvent := <-eventReceived:
		assert.Equal(t, testEvent.UserID, receivedEvent.UserID)
		assert.Equal(t, testEvent.OldLevel, receivedEvent.OldLevel)
		assert.Equal(t, testEvent.NewLevel, receivedEvent.NewLevel)
	case <-time.After(2 * time.Second):
		t.Fatal("Event was not received within timeout")
	}
}

// TestMultipleEventsDelivery tests delivering multiple events in sequence
func TestMultipleEventsDelivery(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	eventsReceived := make(chan XPGrantedEvent, 3)
	var wg sync.WaitGroup
	wg.Add(3)

	mainBus.Subscribe(EventTypeXPGranted, func(ctx context.Context, event Event) {
		defer wg.Done()
		if grantEvent, ok := event.(XPGrantedEvent); ok {
			eventsReceived <- grantEvent
		}
	})

	// Create and publish multiple test events
	events := []XPGrantedEvent{
		{UserID: 1, Amount: 15, XP: 15, Level: 0},
		{UserID: 2, Amount: 20, XP: 45, Level: 0},
		{UserID: 3, Amount: 25, XP: 5, Level: 1},
	}

	for _, event := range events {
		transactionalBus.Publish(event)
	}

	// Flush all events
	ctx := context.Background()
	err := transactionalBus.Flush(ctx)
	assert.NoError(t, err)

	// Wait for all events to be processed
	wg.Wait()

	// Verify all events were received
	receivedEvents := make([]XPGrantedEvent, 0, 3)
	for i := 0; i < 3; i++ {
		select {
		case event := <-eventsReceived:
			receivedEvents = append(receivedEvents, event)
		case <-time.After(2 * time.Second):
			t.Fatalf("Only received %d out of 3 events", len(receivedEvents))
		}
	}

	assert.Len(t, receivedEvents, 3)

	// Check that all original events were received (order may vary due to goroutines)
	userIDs := make(map[int64]bool)
	for _, received := range receivedEvents {
		userIDs[received.UserID] = true
	}

	assert.True(t, userIDs[1])
	assert.True(t, userIDs[2])
	assert.True(t, userIDs[3])
}

// TestTransactionalBusDiscard tests that discarded events are not delivered
func TestTransactionalBusDiscard(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	eventReceived := make(chan bool, 1)

	mainBus.Subscribe(EventTypeLevelUp, func(ctx context.Context, event Event) {
		eventReceived <- true
	})

	// Publish event
	testEvent := LevelUpEvent{
		UserID:   123456,
		OldLevel: 1,
		NewLevel: 2,
	}
	transactionalBus.Publish(testEvent)

	// Discard instead of flush (simulating transaction rollback)
	transactionalBus.Discard()

	// Verify no event was received
	select {
	case <-eventReceived:
		t.Fatal("Event was received despite being discarded")
	case <-time.After(100 * time.Millisecond):
		// Expected - no event should be received
	}
}
