package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	gamepads "github.com/doingharm/go-gamepad-relay"
)

func main() {
	var configPath string
	var printDefault bool
	flag.StringVar(&configPath, "config", "configs/relay.json", "relay config path")
	flag.BoolVar(&printDefault, "print-default", false, "print default config and exit")
	flag.Parse()

	if printDefault {
		cfg := gamepads.DefaultConfig()
		out, _ := json.MarshalIndent(cfg, "", "  ")
		fmt.Println(string(out))
		return
	}

	cfg, err := gamepads.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.New(os.Stdout, "relay: ", log.LstdFlags)

	poller, closePoller, err := openPoller(cfg, logger)
	if err != nil {
		log.Fatalf("device error: %v", err)
	}
	defer closePoller()

	httpTx := gamepads.NewHTTPTransmitter(cfg.ServerURL, cfg.EndpointPath, cfg.RequestTimeout(), nil)
	var registrar gamepads.Registrar
	if *cfg.Register {
		registrar = httpTx
	}
	clientID := gamepads.ResolveClientID(ctx, cfg.ClientID, registrar, logger)
	logger.Printf("client id %s, transport %s", clientID, cfg.Transport)

	tx, closeTx, err := openTransmitter(cfg, clientID, httpTx)
	if err != nil {
		log.Fatalf("transport error: %v", err)
	}
	defer closeTx()

	var display gamepads.Display
	if *cfg.Display {
		display = gamepads.NewTextDisplay(os.Stdout)
	}

	loop := gamepads.NewLoop(cfg.LoopConfig(clientID), poller, tx, display, logger)
	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("loop error: %v", err)
	}
	s := loop.Stats()
	logger.Printf("stopped: %d sent, %d acked, %d failed, %d stale", s.Sent, s.Acked, s.Failed, s.Stale)
}

func openPoller(cfg gamepads.Config, logger *log.Logger) (gamepads.Poller, func(), error) {
	switch cfg.Device {
	case gamepads.DeviceBus:
		b, errCh, err := gamepads.NewBus(cfg.Verbose, nil)
		if err != nil {
			return nil, nil, err
		}

		// read error messages
		go func() {
			for err := range errCh {
				logger.Println(err.Error())
			}
		}()

		if ch := b.NewEventChannel(); ch != nil {
			go func() {
				for event := range ch.Ch {
					switch event.Type {
					case gamepads.ConnectEventType:
						gp := event.Data.(gamepads.Gamepad)
						logger.Printf("%s connected: %s (%d axes, %d buttons)", gp.ID, gp.Model, gp.Axes, gp.Buttons)
					case gamepads.DisconnectEventType:
						logger.Printf("%s disconnected", event.ID)
					}
				}
			}()
		}
		return b, b.Close, nil
	default:
		p := gamepads.NewJoystickPoller(cfg.MaxDevices, cfg.Verbose, nil)
		return p, p.Close, nil
	}
}

func openTransmitter(cfg gamepads.Config, clientID string, httpTx *gamepads.HTTPTransmitter) (gamepads.Transmitter, func(), error) {
	switch cfg.Transport {
	case gamepads.TransportWebSocket:
		tx, err := gamepads.NewWSTransmitter(cfg.ServerURL, clientID, cfg.RequestTimeout(), cfg.WSPingInterval(), cfg.Verbose, nil)
		if err != nil {
			return nil, nil, err
		}
		return tx, closer(tx), nil
	case gamepads.TransportMQTT:
		tx, err := gamepads.NewMQTTTransmitter(cfg.MQTT.Broker, cfg.MQTT.TopicPrefix, clientID, byte(cfg.MQTT.QoS), cfg.RequestTimeout(), nil)
		if err != nil {
			return nil, nil, err
		}
		return tx, closer(tx), nil
	default:
		return httpTx, func() {}, nil
	}
}

func closer(c io.Closer) func() {
	return func() { _ = c.Close() }
}
