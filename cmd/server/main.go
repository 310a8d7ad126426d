package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rf433-backend/internal/archive"
	"rf433-backend/internal/clock"
	"rf433-backend/internal/feedback"
	"rf433-backend/internal/models"
	"rf433-backend/internal/mqtt"
	"rf433-backend/internal/services"
	"rf433-backend/internal/settings"
	"rf433-backend/internal/storage"
	"rf433-backend/internal/web"
	"rf433-backend/pkg/config"
)

func main() {
	log.Println("Starting RF433 signal archive backend...")

	// Load configuration
	cfg := config.Load()

	// Open the durable key-value store
	store, err := storage.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer store.Close()

	// Uptime clock for capture timestamps
	clk := clock.NewUptime()

	// Load persisted toggles and rehydrate the archive
	sets := settings.Load(store)
	arch := archive.New(store, clk)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// === Initialize MQTT Client ===
	log.Println("Connecting to MQTT broker...")
	mqttClient, err := mqtt.NewClient(mqtt.ClientConfig{
		Broker:   cfg.MQTTBroker,
		ClientID: cfg.MQTTClientID,
		Username: cfg.MQTTUsername,
		Password: cfg.MQTTPassword,
	})
	if err != nil {
		log.Fatalf("Failed to initialize MQTT client: %v", err)
	}
	defer mqttClient.Close()

	// === Feedback ===
	var fb feedback.Feedback = &feedback.Logger{}
	if cfg.FeedbackMQTT {
		fb = feedback.NewPublisher(mqttClient.Native(), cfg.MQTTTopicFeedback)
	}

	// === Capture pipeline ===
	// The readings channel connects the MQTT receiver to the capture service
	readings := make(chan *models.Reading, cfg.CaptureChannelSize)

	receiver := mqtt.NewReceiver(mqttClient.Native(), mqtt.ReceiverConfig{
		Topic:       cfg.MQTTTopicReceived,
		ChannelSize: cfg.CaptureChannelSize,
	}, readings)
	if err := receiver.Subscribe(); err != nil {
		log.Fatalf("Failed to subscribe to signal topic: %v", err)
	}

	capture := services.NewCaptureService(arch, sets, fb, clk, services.DefaultCaptureServiceConfig())
	capture.Readings = readings
	go capture.Start(ctx)

	// === Command surface and HTTP API ===
	transmitter := mqtt.NewTransmitter(mqttClient.Native(), cfg.MQTTTopicTransmit)
	commands := services.NewCommandService(arch, sets, transmitter, fb)

	server := web.NewServer(commands)
	go func() {
		log.Printf("HTTP API listening on %s", cfg.HTTPAddr)
		if err := server.Run(cfg.HTTPAddr); err != nil {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	if sets.Buzzer() {
		fb.PlayStartupSound()
	}
	log.Println("RF433 signal archive backend ready")

	// === Wait for interrupt signal ===
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// === Graceful shutdown ===
	log.Println("Shutdown signal received, stopping services...")
	cancel()

	// Give the capture loop time to finish the reading in flight
	time.Sleep(1 * time.Second)

	log.Println("Shutdown complete")
}
