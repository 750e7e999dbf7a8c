package watermilldb

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ark-network/launchsite/internal/core/domain"
	"github.com/ark-network/launchsite/internal/core/ports"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	log "github.com/sirupsen/logrus"
)

const (
	typeMetadataKey = "type"

	subscriberBufferSize = 64
)

type eventBus struct {
	pubsub *gochannel.GoChannel
	topics []string

	lock   *sync.RWMutex
	closed bool
}

// NewEventBus returns an in-process bus delivering the events of the given
// topics to every subscriber.
func NewEventBus(topics ...string) ports.EventBus {
	if len(topics) <= 0 {
		topics = []string{domain.LaunchSiteTopic}
	}
	pubsub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            subscriberBufferSize,
			BlockPublishUntilSubscriberAck: true,
		},
		watermill.NewStdLogger(false, false),
	)
	return &eventBus{
		pubsub: pubsub,
		topics: topics,
		lock:   &sync.RWMutex{},
	}
}

func (b *eventBus) Publish(_ context.Context, events ...domain.Event) error {
	b.lock.RLock()
	defer b.lock.RUnlock()

	if b.closed {
		return fmt.Errorf("event bus closed")
	}

	byTopic := make(map[string][]*message.Message)
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to encode %s event: %s", event.GetType(), err)
		}
		msg := message.NewMessage(watermill.NewUUID(), payload)
		msg.Metadata.Set(typeMetadataKey, event.GetType().String())
		byTopic[event.GetTopic()] = append(byTopic[event.GetTopic()], msg)
	}

	for topic, messages := range byTopic {
		if err := b.pubsub.Publish(topic, messages...); err != nil {
			return fmt.Errorf("failed to publish on topic %s: %w", topic, err)
		}
	}
	return nil
}

func (b *eventBus) Subscribe(ctx context.Context) (<-chan ports.Notification, error) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	if b.closed {
		return nil, fmt.Errorf("event bus closed")
	}

	ch := make(chan ports.Notification, subscriberBufferSize)
	wg := &sync.WaitGroup{}
	for _, topic := range b.topics {
		messages, err := b.pubsub.Subscribe(ctx, topic)
		if err != nil {
			return nil, fmt.Errorf("failed to subscribe to topic %s: %w", topic, err)
		}
		wg.Add(1)
		go forward(ctx, topic, messages, ch, wg)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	return ch, nil
}

func (b *eventBus) Close() {
	b.lock.Lock()
	defer b.lock.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	//nolint:errcheck
	b.pubsub.Close()
}

func forward(
	ctx context.Context, topic string,
	messages <-chan *message.Message, ch chan<- ports.Notification, wg *sync.WaitGroup,
) {
	defer wg.Done()

	for msg := range messages {
		notification := ports.Notification{
			Id:      msg.UUID,
			Topic:   topic,
			Type:    msg.Metadata.Get(typeMetadataKey),
			Payload: json.RawMessage(msg.Payload),
		}
		msg.Ack()

		// Slow subscribers lose notifications rather than holding back the
		// publisher.
		select {
		case ch <- notification:
		default:
			if ctx.Err() == nil {
				log.Warnf("subscriber buffer full, dropped %s notification", notification.Type)
			}
		}
	}
}
