package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meskel-dev/bethel-admin-api/internal/dto"
	"github.com/meskel-dev/bethel-admin-api/internal/models"
	"github.com/meskel-dev/bethel-admin-api/internal/repository"
)

func streamEvent(actorID uint, churchID *uint, details string) dto.ActivityStreamEvent {
	return dto.ActivityStreamEvent{
		Event: dto.ActivityEventResponse{
			ActorID: &actorID,
			Action:  "create",
			Details: details,
		},
		ActorChurchID: churchID,
	}
}

func receiveOrTimeout(t *testing.T, events <-chan dto.ActivityStreamEvent) dto.ActivityStreamEvent {
	t.Helper()
	select {
	case event := <-events:
		return event
	case <-time.After(time.Second):
		t.Fatal("expected a stream event")
		return dto.ActivityStreamEvent{}
	}
}

func requireNoEvent(t *testing.T, events <-chan dto.ActivityStreamEvent) {
	t.Helper()
	select {
	case event := <-events:
		t.Fatalf("unexpected stream event: %s", event.Event.Details)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStreamDeliversWithinScope(t *testing.T) {
	svc := NewActivityStreamService(nil, "", nil, nopLogger())

	churchA := uint(1)
	churchB := uint(2)

	pastorScope := repository.Scope{Role: models.RolePastor, ChurchID: &churchA, ActorID: 10}
	events, release := svc.Subscribe(pastorScope)
	defer release()

	svc.Publish(context.Background(), streamEvent(11, &churchA, "same church"))
	got := receiveOrTimeout(t, events)
	require.Equal(t, "same church", got.Event.Details)

	svc.Publish(context.Background(), streamEvent(12, &churchB, "other church"))
	requireNoEvent(t, events)
}

func TestStreamServantOnlySeesOwnEvents(t *testing.T) {
	svc := NewActivityStreamService(nil, "", nil, nopLogger())

	church := uint(1)
	scope := repository.Scope{Role: models.RoleServant, ChurchID: &church, ActorID: 20}
	events, release := svc.Subscribe(scope)
	defer release()

	svc.Publish(context.Background(), streamEvent(21, &church, "someone else"))
	requireNoEvent(t, events)

	svc.Publish(context.Background(), streamEvent(20, &church, "own action"))
	got := receiveOrTimeout(t, events)
	require.Equal(t, "own action", got.Event.Details)
}

func TestStreamSuperAdminSeesEverything(t *testing.T) {
	svc := NewActivityStreamService(nil, "", nil, nopLogger())

	events, release := svc.Subscribe(repository.Scope{Role: models.RoleSuperAdmin, ActorID: 1})
	defer release()

	svc.Publish(context.Background(), streamEvent(99, nil, "anything"))
	got := receiveOrTimeout(t, events)
	require.Equal(t, "anything", got.Event.Details)
}

func TestStreamReleaseStopsDelivery(t *testing.T) {
	svc := NewActivityStreamService(nil, "", nil, nopLogger())

	events, release := svc.Subscribe(repository.Scope{Role: models.RoleSuperAdmin, ActorID: 1})
	release()

	svc.Publish(context.Background(), streamEvent(99, nil, "after release"))
	requireNoEvent(t, events)
}

func TestStreamSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	svc := NewActivityStreamService(nil, "", nil, nopLogger())

	_, release := svc.Subscribe(repository.Scope{Role: models.RoleSuperAdmin, ActorID: 1})
	defer release()

	// Overfill the buffer; Publish must never block.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < streamBufferSize*3; i++ {
			svc.Publish(context.Background(), streamEvent(99, nil, "burst"))
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}
