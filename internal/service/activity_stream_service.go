package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/meskel-dev/bethel-admin-api/internal/dto"
	"github.com/meskel-dev/bethel-admin-api/internal/observability"
	"github.com/meskel-dev/bethel-admin-api/internal/repository"
)

const (
	streamBufferSize   = 16
	streamPingInterval = 30 * time.Second
	streamWriteTimeout = 10 * time.Second
)

// ActivityStreamService delivers live new-event notifications to feed
// viewers. Delivery is a re-fetch hint with at-most-approximately-once
// semantics: duplicates and drops are both harmless because viewers fully
// reconcile by re-fetching the feed.
type ActivityStreamService interface {
	FeedPublisher
	Subscribe(scope repository.Scope) (<-chan dto.ActivityStreamEvent, func())
	ServeConnection(conn *websocket.Conn, scope repository.Scope)
	Start(ctx context.Context)
}

type activityStreamService struct {
	redis        *redis.Client
	redisChannel string
	nats         *nats.Conn
	natsSubject  string
	logger       zerolog.Logger
	broker       *streamBroker
	nodeID       string
}

type streamEnvelope struct {
	Source string                  `json:"source"`
	Event  dto.ActivityStreamEvent `json:"event"`
	SentAt time.Time               `json:"sent_at"`
}

type streamSubscriber struct {
	scope   repository.Scope
	channel chan dto.ActivityStreamEvent
}

type streamBroker struct {
	mu          sync.RWMutex
	subscribers map[*streamSubscriber]struct{}
}

// NewActivityStreamService constructs the stream fan-out. Redis and NATS are
// both optional; with neither, events still reach subscribers on this node.
func NewActivityStreamService(redisClient *redis.Client, channelBase string, natsConn *nats.Conn, logger zerolog.Logger) ActivityStreamService {
	channel := ""
	subject := ""
	if channelBase != "" {
		channel = channelBase + ":activity"
		subject = strings.ReplaceAll(channelBase, ":", ".") + ".activity"
	}

	return &activityStreamService{
		redis:        redisClient,
		redisChannel: channel,
		nats:         natsConn,
		natsSubject:  subject,
		logger:       logger.With().Str("component", "activity_stream").Logger(),
		broker:       &streamBroker{subscribers: make(map[*streamSubscriber]struct{})},
		nodeID:       uuid.NewString(),
	}
}

func (s *activityStreamService) Start(ctx context.Context) {
	if s.redis != nil && s.redisChannel != "" {
		go s.consumeRedis(ctx)
	}
	if s.nats != nil && s.natsSubject != "" {
		go s.consumeNATS(ctx)
	}
}

// Publish fans the event out to local subscribers and to the other nodes.
// Failures are logged and swallowed: the stream is a hint channel, never a
// reason to fail the recording that triggered it.
func (s *activityStreamService) Publish(ctx context.Context, event dto.ActivityStreamEvent) {
	// Drop cached feed pages first so the re-fetch this event triggers sees
	// it. The cache lives in shared redis, so one sweep at the publishing
	// node covers every node.
	s.invalidateFeedCache(ctx)

	s.broker.broadcast(event)

	envelope := streamEnvelope{Source: s.nodeID, Event: event, SentAt: time.Now().UTC()}
	payload, err := json.Marshal(envelope)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode activity stream envelope")
		return
	}

	if s.redis != nil && s.redisChannel != "" {
		if err := s.redis.Publish(ctx, s.redisChannel, payload).Err(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to publish activity event to redis")
		}
	}
	if s.nats != nil && s.natsSubject != "" {
		if err := s.nats.Publish(s.natsSubject, payload); err != nil {
			s.logger.Warn().Err(err).Msg("failed to publish activity event to nats")
		}
	}
}

// Subscribe registers a scoped listener and returns its channel plus a
// release function. The caller must release on teardown; the returned
// channel is closed by nobody and simply stops receiving.
func (s *activityStreamService) Subscribe(scope repository.Scope) (<-chan dto.ActivityStreamEvent, func()) {
	subscriber := &streamSubscriber{
		scope:   scope,
		channel: make(chan dto.ActivityStreamEvent, streamBufferSize),
	}
	s.broker.add(subscriber)
	observability.StreamClientsActive().Inc()

	release := func() {
		s.broker.remove(subscriber)
		observability.StreamClientsActive().Dec()
	}
	return subscriber.channel, release
}

// ServeConnection pumps scoped events over a websocket until the peer goes
// away. The read loop exists only to notice the close.
func (s *activityStreamService) ServeConnection(conn *websocket.Conn, scope repository.Scope) {
	events, release := s.Subscribe(scope)
	defer release()
	defer func() { _ = conn.Close() }()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(streamPingInterval)
	defer ticker.Stop()

	for {
		select {
		case event := <-events:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
			if err := conn.WriteJSON(event); err != nil {
				s.logger.Debug().Err(err).Msg("activity stream write failed, dropping client")
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (s *activityStreamService) invalidateFeedCache(ctx context.Context) {
	if s.redis == nil {
		return
	}

	iter := s.redis.Scan(ctx, 0, feedCacheKeyPrefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to scan activity feed cache keys")
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := s.redis.Del(ctx, keys...).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate activity feed cache")
	}
}

func (s *activityStreamService) consumeRedis(ctx context.Context) {
	pubsub := s.redis.Subscribe(ctx, s.redisChannel)
	defer func() { _ = pubsub.Close() }()

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			s.logger.Error().Err(err).Msg("activity stream redis subscription closed")
			return
		}
		s.handleRemote([]byte(msg.Payload))
	}
}

func (s *activityStreamService) consumeNATS(ctx context.Context) {
	sub, err := s.nats.QueueSubscribe(s.natsSubject, "bethel-activity", func(msg *nats.Msg) {
		s.handleRemote(msg.Data)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to subscribe to nats activity subject")
		return
	}

	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to drain activity nats subscription")
		}
	}()
}

func (s *activityStreamService) handleRemote(payload []byte) {
	var envelope streamEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		s.logger.Warn().Err(err).Msg("invalid activity stream payload")
		return
	}
	if envelope.Source == s.nodeID {
		return
	}
	s.broker.broadcast(envelope.Event)
}

func (b *streamBroker) add(subscriber *streamSubscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[subscriber] = struct{}{}
}

func (b *streamBroker) remove(subscriber *streamSubscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subscribers, subscriber)
}

// broadcast delivers to every subscriber whose scope admits the event's
// actor. Slow subscribers lose events rather than block the broker.
func (b *streamBroker) broadcast(event dto.ActivityStreamEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for subscriber := range b.subscribers {
		if !subscriber.scope.Admits(event.Event.ActorID, event.ActorChurchID) {
			continue
		}
		select {
		case subscriber.channel <- event:
		default:
		}
	}
}
