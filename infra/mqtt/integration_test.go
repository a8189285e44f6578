package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/kilianp07/sessionplan/core/controller"
	"github.com/kilianp07/sessionplan/core/events"
	"github.com/kilianp07/sessionplan/core/model"
	"github.com/kilianp07/sessionplan/internal/eventbus"
)

// TestIntegration runs a search end to end through a real Mosquitto broker.
func TestIntegration(t *testing.T) {
	if os.Getenv("DOCKER_AVAILABLE") != "true" && os.Getenv("DOCKER_AVAILABLE") != "1" {
		t.Skip("docker not available")
	}
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "eclipse-mosquitto:1.6",
			ExposedPorts: []string{"1883/tcp"},
			WaitingFor:   wait.ForListeningPort("1883/tcp"),
		},
		Started: true,
	})
	require.NoError(t, err)
	defer func() { _ = container.Terminate(ctx) }()

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "1883")
	require.NoError(t, err)
	broker := fmt.Sprintf("tcp://%s:%s", host, port.Port())

	bus := eventbus.NewWithBuffer(256)
	ctrl := controller.New(controller.Config{}, bus)
	defer ctrl.Close()
	var tr *Transport
	for i := 0; i < 5; i++ {
		tr, err = NewTransport(ctx, Config{Broker: broker, QoS: map[string]byte{"start": 1, "result": 1}}, ctrl, bus, model.Request{})
		if err == nil {
			break
		}
		time.Sleep(500 * time.Millisecond)
	}
	require.NoError(t, err)
	defer tr.Close()

	opts := paho.NewClientOptions().AddBroker(broker).SetClientID("it-client")
	cli := paho.NewClient(opts)
	token := cli.Connect()
	require.True(t, token.WaitTimeout(5*time.Second))
	require.NoError(t, token.Error())
	defer cli.Disconnect(250)

	results := make(chan []byte, 1)
	sub := cli.Subscribe("sessionplan/it/result", 1, func(_ paho.Client, m paho.Message) { results <- m.Payload() })
	require.True(t, sub.WaitTimeout(5*time.Second))
	require.NoError(t, sub.Error())

	body, err := json.Marshal(events.StartMessage{RequestID: "it", Payload: workedRequest()})
	require.NoError(t, err)
	pub := cli.Publish("sessionplan/start", 1, false, body)
	require.True(t, pub.WaitTimeout(5*time.Second))

	select {
	case payload := <-results:
		var res events.ResultMessage
		require.NoError(t, json.Unmarshal(payload, &res))
		assert.Len(t, res.Results, 3)
	case <-time.After(10 * time.Second):
		t.Fatal("timeout waiting for result")
	}
}
