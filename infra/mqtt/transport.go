package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/sessionplan/core/controller"
	"github.com/kilianp07/sessionplan/core/events"
	"github.com/kilianp07/sessionplan/core/model"
	coremon "github.com/kilianp07/sessionplan/core/monitoring"
	coremqtt "github.com/kilianp07/sessionplan/core/mqtt"
	"github.com/kilianp07/sessionplan/infra/logger"
	"github.com/kilianp07/sessionplan/internal/eventbus"
)

// SearchController is the part of the controller driven by the transport.
type SearchController interface {
	Start(ctx context.Context, id string, req model.Request) (*controller.Handle, error)
	Cancel(id string) bool
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Transport exposes a SearchController over MQTT. It consumes start and
// cancel messages and publishes the progress, result and error events found
// on the bus.
type Transport struct {
	cli      pahoClient
	cfg      Config
	topics   coremqtt.Topics
	ctrl     SearchController
	bus      eventbus.EventBus
	defaults model.Request
	logger   logger.Logger
	backoff  time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewTransport connects to the broker, subscribes to the control topics and
// starts forwarding bus events. defaults prefills every decoded request.
// Runs started by the transport live until ctx is done or Close is called.
func NewTransport(ctx context.Context, cfg Config, ctrl SearchController, bus eventbus.EventBus, defaults model.Request) (*Transport, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	tctx, cancel := context.WithCancel(ctx)
	t := &Transport{
		cfg:      cfg,
		topics:   coremqtt.NewTopics(cfg.TopicPrefix),
		ctrl:     ctrl,
		bus:      bus,
		defaults: defaults,
		logger:   logger.New("mqtt_transport"),
		backoff:  time.Duration(cfg.BackoffMS) * time.Millisecond,
		ctx:      tctx,
		cancel:   cancel,
	}

	opts.OnConnect = func(c paho.Client) {
		t.logger.Infof("MQTT connected")
		t.subscribe(c)
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		t.logger.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		t.logger.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	t.cli = c
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		cancel()
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}

	sub := bus.Subscribe()
	t.wg.Add(1)
	go t.forward(sub)
	return t, nil
}

type subscriber interface {
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
}

func (t *Transport) subscribe(c subscriber) {
	if token := c.Subscribe(t.topics.Start(), t.cfg.qos("start"), t.onStart); token.Wait() && token.Error() != nil {
		t.logger.Errorf("subscribe %s: %v", t.topics.Start(), token.Error())
	}
	if token := c.Subscribe(t.topics.Cancel(), t.cfg.qos("cancel"), t.onCancel); token.Wait() && token.Error() != nil {
		t.logger.Errorf("subscribe %s: %v", t.topics.Cancel(), token.Error())
	}
}

func (t *Transport) onStart(_ paho.Client, msg paho.Message) {
	start := events.StartMessage{Payload: t.defaults}
	if err := json.Unmarshal(msg.Payload(), &start); err != nil {
		t.logger.Warnf("invalid start message: %v", err)
		t.reject(start.RequestID, fmt.Sprintf("decode start message: %v", err))
		return
	}
	if start.RequestID != "" && !coremqtt.ValidID(start.RequestID) {
		t.reject("", fmt.Sprintf("request id %q cannot be used in a topic", start.RequestID))
		return
	}
	h, err := t.ctrl.Start(t.ctx, start.RequestID, start.Payload)
	if err != nil {
		t.logger.Warnf("rejected start %s: %v", start.RequestID, err)
		t.reject(start.RequestID, err.Error())
		return
	}
	t.logger.Infof("started search %s", h.ID())
}

func (t *Transport) onCancel(_ paho.Client, msg paho.Message) {
	var cancel events.CancelMessage
	if err := json.Unmarshal(msg.Payload(), &cancel); err != nil {
		t.logger.Warnf("invalid cancel message: %v", err)
		return
	}
	if !t.ctrl.Cancel(cancel.RequestID) {
		t.logger.Debugf("cancel for %s ignored", cancel.RequestID)
	}
}

// reject publishes an error message from its own goroutine. It is called
// from paho message handlers, which must not wait on a publish token.
func (t *Transport) reject(id, message string) {
	if !coremqtt.ValidID(id) {
		id = ""
	}
	if t.ctx.Err() != nil {
		return
	}
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		_ = t.publish(id, t.topics.Error(id), t.cfg.qos("error"), events.ErrorMessage{RequestID: id, Message: message})
	}()
}

func (t *Transport) forward(sub <-chan eventbus.Event) {
	defer t.wg.Done()
	defer t.bus.Unsubscribe(sub)
	for {
		select {
		case <-t.ctx.Done():
			return
		case ev, ok := <-sub:
			if !ok {
				return
			}
			switch e := ev.(type) {
			case events.Progress:
				t.publishProgress(e)
			case events.Result:
				_ = t.publish(e.RequestID, t.topics.Result(e.RequestID), t.cfg.qos("result"), e.Message())
			case events.Failure:
				_ = t.publish(e.RequestID, t.topics.Error(e.RequestID), t.cfg.qos("error"), e.Message())
			}
		}
	}
}

// publishProgress sends without waiting for the broker.
func (t *Transport) publishProgress(e events.Progress) {
	if !t.cli.IsConnected() {
		return
	}
	payload, err := json.Marshal(e.Message())
	if err != nil {
		t.logger.Errorf("encode progress: %v", err)
		return
	}
	t.cli.Publish(t.topics.Progress(e.RequestID), t.cfg.qos("progress"), false, payload)
}

// publish sends v as JSON, retrying with exponential backoff.
func (t *Transport) publish(id, topic string, qos byte, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", topic, err)
	}
	tags := map[string]string{coremon.TagRequestID: id, "module": "mqtt", "topic": topic}
	if !t.cli.IsConnected() {
		coremon.CaptureException(coremqtt.ErrNotConnected, tags)
		return fmt.Errorf("mqtt publish %s: %w", topic, coremqtt.ErrNotConnected)
	}
	var publishErr error
	for attempt := 0; attempt <= t.cfg.MaxRetries; attempt++ {
		token := t.cli.Publish(topic, qos, false, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			t.logger.Debugf("published %s", topic)
			return nil
		}
		t.logger.Errorf("publish attempt %d to %s failed: %v", attempt+1, topic, publishErr)
		if attempt < t.cfg.MaxRetries {
			time.Sleep(t.backoff * time.Duration(1<<attempt))
		}
	}
	coremon.CaptureException(publishErr, tags)
	return fmt.Errorf("mqtt publish %s: %w", topic, publishErr)
}

// Close stops forwarding and disconnects. Runs started by the transport
// are cancelled through its context.
func (t *Transport) Close() {
	t.cancel()
	t.wg.Wait()
	if t.cli != nil && t.cli.IsConnected() {
		t.cli.Disconnect(250)
	}
}
