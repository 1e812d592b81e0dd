package mqtt

import (
	"encoding/json"
	"time"

	"github.com/nerrad567/sound-logic-core/internal/osc"
)

// publishQueueSize buffers a full refresh dump worth of changes while
// the broker round trips.
const publishQueueSize = 512

// Logger is the logging surface Publisher needs.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Warn(msg string, args ...any)
}

// Broker is the publishing surface Publisher needs. *Client satisfies it.
type Broker interface {
	Publish(topic string, payload []byte, retained bool) error
}

// Publisher mirrors confirmed parameter changes onto MQTT topics. It
// satisfies the bridge's Observer interface; register it in the bridge
// options and every device-confirmed change is published retained
// under "<prefix><address>", e.g. soundlogic/output/1/volume.
//
// The bridge invokes observers with its dispatch lock held, so
// ParameterChanged only enqueues; a worker goroutine does the blocking
// broker round trips.
type Publisher struct {
	client Broker
	prefix string
	logger Logger

	queue chan changeMessage
	done  chan struct{}
}

// NewPublisher creates a Publisher on top of an established client and
// starts its publish worker. Logger is optional - if nil, publish
// errors are dropped. Call Close to drain and stop the worker.
func NewPublisher(client Broker, prefix string, logger Logger) *Publisher {
	p := &Publisher{
		client: client,
		prefix: prefix,
		logger: logger,
		queue:  make(chan changeMessage, publishQueueSize),
		done:   make(chan struct{}),
	}
	go p.publishLoop()
	return p
}

// changeMessage is the JSON payload for a parameter change.
type changeMessage struct {
	Address   string `json:"address"`
	Register  uint16 `json:"register"`
	Raw       int    `json:"raw"`
	Values    []any  `json:"values"`
	Timestamp string `json:"timestamp"`
}

// ParameterChanged enqueues one parameter change for publishing. Never
// blocks: when the queue is full the change is dropped, so a stalled
// broker cannot back up into the dispatch path.
func (p *Publisher) ParameterChanged(address string, register uint16, raw int, args []osc.Argument) {
	msg := changeMessage{
		Address:   address,
		Register:  register,
		Raw:       raw,
		Values:    argValues(args),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	select {
	case p.queue <- msg:
	default:
		if p.logger != nil {
			p.logger.Warn("mqtt publish queue full, dropping change", "address", address)
		}
	}
}

// publishLoop drains the queue. Failures are logged and swallowed.
func (p *Publisher) publishLoop() {
	defer close(p.done)
	for msg := range p.queue {
		payload, err := json.Marshal(msg)
		if err != nil {
			continue
		}
		topic := p.prefix + msg.Address
		if err := p.client.Publish(topic, payload, true); err != nil {
			if p.logger != nil {
				p.logger.Warn("mqtt publish failed", "topic", topic, "error", err)
			}
		}
	}
}

// Close drains queued changes and stops the worker. The Publisher must
// not be used afterwards.
func (p *Publisher) Close() {
	close(p.queue)
	<-p.done
}

// argValues converts OSC arguments to JSON-friendly values.
func argValues(args []osc.Argument) []any {
	values := make([]any, 0, len(args))
	for _, a := range args {
		switch a.Tag {
		case osc.TagInt32:
			values = append(values, a.Int)
		case osc.TagFloat32:
			values = append(values, a.Float)
		case osc.TagString:
			values = append(values, a.Str)
		case osc.TagTrue:
			values = append(values, true)
		case osc.TagFalse:
			values = append(values, false)
		default:
			values = append(values, nil)
		}
	}
	return values
}
