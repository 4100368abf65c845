package writer

import (
	"context"
	"fmt"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pochkachaiki/datamaker/internal/models/device"
)

const (
	mqttQoS             = 1
	mqttConnectTimeout  = 10 * time.Second
	mqttDisconnectQuiet = 250
)

// MQTT publishes records to a topic with QoS 1.
type MQTT struct {
	publisher
	broker   string
	clientID string
	topic    string
	client   mqtt.Client
}

func NewMQTT(broker, clientID, topic string, opts ...Option) *MQTT {
	w := &MQTT{broker: broker, clientID: clientID, topic: topic}
	w.setup("mqtt", opts)
	return w
}

func (w *MQTT) Open(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.isOpen() {
		return nil
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(w.broker)
	opts.SetClientID(w.clientID)
	opts.SetConnectTimeout(mqttConnectTimeout)
	opts.SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	select {
	case <-token.Done():
	case <-ctx.Done():
		return fmt.Errorf("mqtt connect: %w", ctx.Err())
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}

	w.client = client
	w.begin()
	return nil
}

func (w *MQTT) Write(ctx context.Context, r device.Record) error {
	body, err := Encode(r)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.isOpen() {
		return device.ErrWriterClosed
	}

	token := w.client.Publish(w.topic, mqttQoS, false, body)
	return w.async(ctx, r.DeviceID, func(ctx context.Context) (string, error) {
		select {
		case <-token.Done():
		case <-ctx.Done():
			return "", ctx.Err()
		}
		if err := token.Error(); err != nil {
			return "", err
		}
		if pt, ok := token.(*mqtt.PublishToken); ok {
			return strconv.Itoa(int(pt.MessageID())), nil
		}
		return "", nil
	})
}

func (w *MQTT) Close(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	wasOpen, err := w.end(ctx)
	if wasOpen {
		w.client.Disconnect(mqttDisconnectQuiet)
	}
	return err
}
