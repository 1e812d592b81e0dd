// Package mqtt publishes mixer parameter changes to an MQTT broker.
//
// The client wraps paho.mqtt.golang with connection management, a Last
// Will and Testament on the bridge status topic, and automatic
// reconnection. Publisher adapts the client to the bridge's observer
// interface: every confirmed parameter change becomes a retained JSON
// message under the configured topic prefix, so dashboards and home
// automation systems can mirror the mixer state without speaking OSC.
package mqtt
