package mqttpub

import (
	"errors"
	"testing"
	"time"

	"github.com/calmh/baropi/baro"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeToken struct {
	done bool
	err  error
}

func (t *fakeToken) Wait() bool                     { return t.done }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return t.done }
func (t *fakeToken) Error() error                   { return t.err }
func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	if t.done {
		close(ch)
	}
	return ch
}

type message struct {
	topic   string
	qos     byte
	payload []byte
}

// fakeClient implements only what the publisher uses.
type fakeClient struct {
	mqtt.Client
	token        *fakeToken
	sent         []message
	disconnected bool
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.sent = append(c.sent, message{topic: topic, qos: qos, payload: payload.([]byte)})
	return c.token
}

func (c *fakeClient) Disconnect(quiesce uint) {
	c.disconnected = true
}

func TestPublish(t *testing.T) {
	client := &fakeClient{token: &fakeToken{done: true}}
	p := New(client, "sensors/bmp280", 1)

	r := baro.Reading{Pressure: 100653, Temperature: 2500, Time: time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)}
	require.NoError(t, p.Publish(r))
	require.Len(t, client.sent, 1)
	assert.Equal(t, "sensors/bmp280", client.sent[0].topic)
	assert.Equal(t, byte(1), client.sent[0].qos)
	assert.JSONEq(t, `{"pressure_pa":100653,"temp_centi_c":2500,"time":"2026-10-18T12:00:00Z"}`, string(client.sent[0].payload))

	p.Close()
	assert.True(t, client.disconnected)
}

func TestPublishErrors(t *testing.T) {
	fail := errors.New("not connected")
	p := New(&fakeClient{token: &fakeToken{done: true, err: fail}}, "t", 0)
	assert.ErrorIs(t, p.Publish(baro.Reading{}), fail)

	p = New(&fakeClient{token: &fakeToken{}}, "t", 0)
	assert.ErrorContains(t, p.Publish(baro.Reading{}), "timeout")
}
