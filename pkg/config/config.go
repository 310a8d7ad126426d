package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP API
	HTTPAddr string

	// Durable storage
	DatabasePath string

	// MQTT Configuration
	MQTTBroker   string
	MQTTClientID string
	MQTTUsername string
	MQTTPassword string

	// Transceiver bridge topics
	MQTTTopicReceived string
	MQTTTopicTransmit string
	MQTTTopicFeedback string

	// Feedback routing: publish events over MQTT, or log only
	FeedbackMQTT bool

	// Capture pipeline
	CaptureChannelSize int
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		HTTPAddr:     getEnv("HTTP_ADDR", ":8080"),
		DatabasePath: getEnv("DB_PATH", "./data/rf433.db"),

		MQTTBroker:   getEnv("MQTT_BROKER", "tcp://localhost:1883"),
		MQTTClientID: getEnv("MQTT_CLIENT_ID", "rf433-backend"),
		MQTTUsername: getEnv("MQTT_USERNAME", ""),
		MQTTPassword: getEnv("MQTT_PASSWORD", ""),

		MQTTTopicReceived: getEnv("MQTT_TOPIC_RECEIVED", "rf433/received"),
		MQTTTopicTransmit: getEnv("MQTT_TOPIC_TRANSMIT", "rf433/transmit"),
		MQTTTopicFeedback: getEnv("MQTT_TOPIC_FEEDBACK", "rf433/feedback"),

		FeedbackMQTT: getEnvBool("FEEDBACK_MQTT", true),

		CaptureChannelSize: getEnvInt("CAPTURE_CHANNEL_SIZE", 100),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: failed to parse %s as int, using default: %v", key, err)
		return defaultValue
	}
	return intValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Warning: failed to parse %s as bool, using default: %v", key, err)
		return defaultValue
	}
	return boolValue
}
