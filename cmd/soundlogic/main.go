// Sound Logic - OSC to MIDI bridge for RME audio interfaces.
//
// The bridge speaks OSC over UDP (and optionally WebSocket) on one
// side and the mixer's SysEx register protocol on the other, keeping a
// local mirror of the device state so clients get instant reads and
// change notifications.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nerrad567/sound-logic-core/internal/bridge"
	"github.com/nerrad567/sound-logic-core/internal/device"
	"github.com/nerrad567/sound-logic-core/internal/dump"
	"github.com/nerrad567/sound-logic-core/internal/history"
	"github.com/nerrad567/sound-logic-core/internal/infrastructure/config"
	"github.com/nerrad567/sound-logic-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/sound-logic-core/internal/infrastructure/logging"
	"github.com/nerrad567/sound-logic-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/sound-logic-core/internal/midiio"
	"github.com/nerrad567/sound-logic-core/internal/osc"
	"github.com/nerrad567/sound-logic-core/internal/tree"
	"github.com/nerrad567/sound-logic-core/internal/wsdgram"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// maxDatagram is the largest OSC packet accepted from the UDP socket.
const maxDatagram = 65507

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the application logic, separated from main for testability.
func run(ctx context.Context) error { //nolint:gocognit // Linear wiring of optional subsystems
	log := logging.Default()
	log.Info("starting Sound Logic",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Device descriptor and parameter tree.
	desc, err := device.Lookup(cfg.Device.Model)
	if err != nil {
		return fmt.Errorf("looking up device: %w", err)
	}
	paramTree, err := tree.Build(desc)
	if err != nil {
		return fmt.Errorf("building parameter tree: %w", err)
	}
	log.Info("device selected",
		"device", desc.Name,
		"inputs", len(desc.Inputs),
		"outputs", len(desc.Outputs),
	)

	// MIDI connection to the mixer.
	ports, err := midiio.Open(cfg.MIDI, desc.Name)
	if err != nil {
		return fmt.Errorf("opening MIDI ports: %w", err)
	}
	defer func() {
		log.Info("closing MIDI ports")
		if closeErr := ports.Close(); closeErr != nil {
			log.Error("error closing MIDI ports", "error", closeErr)
		}
	}()
	log.Info("MIDI ports open", "in", ports.InPort(), "out", ports.OutPort())

	// UDP sockets for OSC clients.
	listenConn, err := net.ListenPacket("udp", cfg.OSC.Listen)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.OSC.Listen, err)
	}
	defer listenConn.Close() //nolint:errcheck // Closed again on shutdown path

	replyAddr, err := net.ResolveUDPAddr("udp", cfg.OSC.Reply)
	if err != nil {
		return fmt.Errorf("resolving reply address %s: %w", cfg.OSC.Reply, err)
	}
	replyConn, err := net.DialUDP("udp", nil, replyAddr)
	if err != nil {
		return fmt.Errorf("dialing reply address %s: %w", cfg.OSC.Reply, err)
	}
	defer replyConn.Close() //nolint:errcheck // Best effort on shutdown
	log.Info("OSC sockets ready", "listen", cfg.OSC.Listen, "reply", cfg.OSC.Reply)

	// Optional integrations.
	var observers []bridge.Observer

	if cfg.MQTT.Enabled {
		mqttClient, mqttErr := mqtt.Connect(cfg.MQTT)
		if mqttErr != nil {
			return fmt.Errorf("connecting to MQTT: %w", mqttErr)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		publisher := mqtt.NewPublisher(mqttClient, cfg.MQTT.TopicPrefix, log)
		defer publisher.Close()
		observers = append(observers, publisher)
		log.Info("MQTT connected", "broker", cfg.MQTT.Broker, "client_id", cfg.MQTT.ClientID)
	} else {
		log.Info("MQTT disabled")
	}

	var levelSink bridge.LevelSink
	if cfg.InfluxDB.Enabled {
		influxClient, influxErr := influxdb.Connect(cfg.InfluxDB)
		if influxErr != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", influxErr)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		levelSink = influxClient
		log.Info("InfluxDB connected", "url", cfg.InfluxDB.URL, "bucket", cfg.InfluxDB.Bucket)
	} else {
		log.Info("InfluxDB disabled")
	}

	var recorder bridge.Recorder
	if cfg.History.Enabled {
		store, histErr := history.Open(cfg.History, log)
		if histErr != nil {
			return fmt.Errorf("opening history: %w", histErr)
		}
		defer func() {
			log.Info("closing history database")
			if closeErr := store.Close(); closeErr != nil {
				log.Error("error closing history", "error", closeErr)
			}
		}()
		recorder = store
		log.Info("history enabled", "path", cfg.History.Path, "retain", cfg.History.Retain)
	} else {
		log.Info("history disabled")
	}

	snapshots := dump.NewWriter(cfg.Snapshots.Dir, desc.ID)

	// The WebSocket gateway and the bridge reference each other: the
	// gateway feeds inbound packets to the bridge, the bridge fans
	// outbound packets back out. Wire through a late-bound pointer.
	var b *bridge.Bridge
	var wsServer *wsdgram.Server
	if cfg.WebSocket.Enabled {
		wsServer = wsdgram.New(cfg.WebSocket, func(packet []byte) error {
			b.HandleOSC(packet)
			return nil
		}, log)
	}

	sendOSC := func(packet []byte) error {
		if wsServer != nil {
			wsServer.Broadcast(packet)
		}
		_, writeErr := replyConn.Write(packet)
		return writeErr
	}

	b, err = bridge.New(bridge.Options{
		Tree:        paramTree,
		Version:     version,
		SendMIDI:    ports.Send,
		SendOSC:     sendOSC,
		QuietPeriod: cfg.RefreshQuietPeriod(),
		Logger:      log,
		Observers:   observers,
		Levels:      levelSink,
		History:     recorder,
		Snapshots:   snapshots,
	})
	if err != nil {
		return fmt.Errorf("creating bridge: %w", err)
	}

	// SysEx frames from the mixer.
	if err := ports.Listen(b.HandleSysEx); err != nil {
		return fmt.Errorf("listening for SysEx: %w", err)
	}

	// OSC packets from UDP clients.
	go func() {
		buf := make([]byte, maxDatagram)
		for {
			n, _, readErr := listenConn.ReadFrom(buf)
			if readErr != nil {
				if ctx.Err() != nil {
					return
				}
				log.Warn("UDP read error", "error", readErr)
				continue
			}
			packet := make([]byte, n)
			copy(packet, buf[:n])
			b.HandleOSC(packet)
		}
	}()

	// WebSocket gateway.
	wsErr := make(chan error, 1)
	if wsServer != nil {
		go func() {
			if serveErr := wsServer.Start(ctx); serveErr != nil {
				wsErr <- serveErr
			}
		}()
	} else {
		log.Info("WebSocket gateway disabled")
	}

	// Poll cycle: nudges stalled refreshes and requests level meters.
	go func() {
		ticker := time.NewTicker(cfg.TimerInterval())
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				b.HandleTimer(cfg.Timer.Levels)
			}
		}
	}()

	if cfg.Refresh.OnStart {
		refresh := osc.Message{Address: "/refresh"}
		packet, encErr := refresh.Encode()
		if encErr != nil {
			return fmt.Errorf("encoding refresh request: %w", encErr)
		}
		b.HandleOSC(packet)
		log.Info("initial parameter refresh requested")
	}

	log.Info("initialisation complete, waiting for shutdown signal")

	select {
	case err := <-wsErr:
		return fmt.Errorf("websocket gateway: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutdown signal received, cleaning up")

	// Unblock the UDP read loop.
	listenConn.Close() //nolint:errcheck // Shutdown path

	log.Info("Sound Logic stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses SOUNDLOGIC_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("SOUNDLOGIC_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
