package mqtt

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/sound-logic-core/internal/osc"
)

// recordingBroker captures published messages.
type recordingBroker struct {
	mu     sync.Mutex
	topics []string
}

func (b *recordingBroker) Publish(topic string, payload []byte, retained bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.topics = append(b.topics, topic)
	return nil
}

// stuckBroker blocks every publish until released.
type stuckBroker struct {
	release chan struct{}
}

func (b *stuckBroker) Publish(topic string, payload []byte, retained bool) error {
	<-b.release
	return nil
}

func TestParameterChangedDoesNotBlock(t *testing.T) {
	broker := &stuckBroker{release: make(chan struct{})}
	p := NewPublisher(broker, "soundlogic", nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		// More changes than the queue holds; the overflow must be
		// dropped, not block the caller.
		for i := 0; i < publishQueueSize*2; i++ {
			p.ParameterChanged("/output/1/volume", 0x0a00, i, []osc.Argument{osc.Int32(int32(i))})
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("ParameterChanged blocked on a stalled broker")
	}

	close(broker.release)
	p.Close()
}

func TestPublisherDrainsOnClose(t *testing.T) {
	broker := &recordingBroker{}
	p := NewPublisher(broker, "soundlogic", nil)

	p.ParameterChanged("/output/1/volume", 0x0a00, -1050, []osc.Argument{osc.Float32(-10.5)})
	p.ParameterChanged("/input/1/mute", 0x0000, 1, []osc.Argument{osc.Bool(true)})
	p.Close()

	broker.mu.Lock()
	defer broker.mu.Unlock()
	if len(broker.topics) != 2 {
		t.Fatalf("published %d messages, want 2", len(broker.topics))
	}
	if broker.topics[0] != "soundlogic/output/1/volume" {
		t.Errorf("topic = %q", broker.topics[0])
	}
}

func TestArgValues(t *testing.T) {
	args := []osc.Argument{
		osc.Int32(3),
		osc.Float32(-10.5),
		osc.String("AES"),
		osc.Bool(true),
		osc.Bool(false),
		{Tag: osc.TagNil},
	}
	got := argValues(args)
	want := []any{int32(3), float32(-10.5), "AES", true, false, nil}
	if len(got) != len(want) {
		t.Fatalf("argValues() returned %d values, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("value %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestChangeMessageJSON(t *testing.T) {
	msg := changeMessage{
		Address:  "/output/1/volume",
		Register: 0x0a00,
		Raw:      -1050,
		Values:   []any{float32(-10.5)},
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["address"] != "/output/1/volume" {
		t.Errorf("address = %v", decoded["address"])
	}
	if decoded["raw"] != float64(-1050) {
		t.Errorf("raw = %v", decoded["raw"])
	}
}

func TestStatusTopicAndPayload(t *testing.T) {
	if got := statusTopic("soundlogic"); got != "soundlogic/status" {
		t.Errorf("statusTopic() = %q", got)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(statusPayload("online", "bridge-1")), &decoded); err != nil {
		t.Fatalf("status payload is not valid JSON: %v", err)
	}
	if decoded["status"] != "online" || decoded["client_id"] != "bridge-1" {
		t.Errorf("payload = %v", decoded)
	}
}

func TestPublishValidation(t *testing.T) {
	c := &Client{}
	if err := c.Publish("", nil, false); err != ErrInvalidTopic {
		t.Errorf("empty topic: got %v, want ErrInvalidTopic", err)
	}
}
