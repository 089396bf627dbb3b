/*
# Module: services/mqtt_ingest.go
MQTT ingestion bridge for devices that publish instead of POSTing.

## Linked Modules
- [services/locations](./locations.go) - Location domain logic
- [types/api_types](../types/api_types.go) - Request data structures

## Tags
ingestion, mqtt, transport

## Exports
MQTTIngest, NewMQTTIngest

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "services/mqtt_ingest.go" ;
    code:description "MQTT ingestion bridge for devices that publish instead of POSTing" ;
    code:linksTo [
        code:name "services/locations" ;
        code:path "./locations.go" ;
        code:relationship "Location domain logic"
    ], [
        code:name "types/api_types" ;
        code:path "../types/api_types.go" ;
        code:relationship "Request data structures"
    ] ;
    code:exports :MQTTIngest, :NewMQTTIngest ;
    code:tags "ingestion", "mqtt", "transport" .
<!-- End LinkedDoc RDF -->
*/
package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/Nayelilh/gps-tracking-server/types"
)

// ingestTopic matches one level per device, e.g. gps/devices/abc123/location.
const ingestTopic = "gps/devices/+/location"

// MQTTIngest subscribes to device location publications and routes them
// through the same validation and persistence path as the HTTP endpoint.
type MQTTIngest struct {
	client  mqtt.Client
	service *LocationService
	timeout time.Duration
}

// NewMQTTIngest connects to the broker. A connect failure is returned to the
// caller; at startup it is treated like a failed store ping.
func NewMQTTIngest(brokerURL, clientID string, service *LocationService, timeout time.Duration) (*MQTTIngest, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}

	return &MQTTIngest{
		client:  client,
		service: service,
		timeout: timeout,
	}, nil
}

// Start subscribes to the device location topic.
func (m *MQTTIngest) Start() error {
	if err := m.subscribe(); err != nil {
		return err
	}

	log.Printf("📡 MQTT ingestion subscribed to %s", ingestTopic)
	return nil
}

func (m *MQTTIngest) subscribe() error {
	token := m.client.Subscribe(ingestTopic, 1, m.handle)
	token.Wait()
	return token.Error()
}

// handle decodes one published sample. Rejected payloads are logged and
// dropped; MQTT has no per-message error channel back to the device.
func (m *MQTTIngest) handle(_ mqtt.Client, msg mqtt.Message) {
	var req types.LocationRequest
	if err := json.Unmarshal(msg.Payload(), &req); err != nil {
		log.Printf("⚠️  MQTT payload on %s is not valid JSON: %v", msg.Topic(), err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	sample, err := m.service.RecordLocation(ctx, req)
	if err != nil {
		log.Printf("⚠️  MQTT sample rejected: %v", err)
		return
	}

	log.Printf("📍 Location ingested via MQTT: device=%s ts=%d", sample.DeviceID, sample.Timestamp)
}

// Close disconnects from the broker, allowing in-flight handlers to finish.
func (m *MQTTIngest) Close() {
	m.client.Disconnect(250)
}
