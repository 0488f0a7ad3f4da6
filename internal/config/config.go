package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ServerConfig holds all server-related settings
type ServerConfig struct {
	Port int
	Host string
}

// StoreConfig holds record store configuration settings
type StoreConfig struct {
	Type string // "mongo" or "memory"
	URI  string
	Name string
}

// SessionConfig holds session store configuration settings
type SessionConfig struct {
	Type     string // "redis" or "memory"
	Addr     string
	Password string
}

// Config holds the complete application configuration
type Config struct {
	Server         *ServerConfig
	Store          *StoreConfig
	Session        *SessionConfig
	AllowedOrigins []string
	Debug          bool
}

// DefaultServerConfig provides default server settings
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Port: 8080,
		Host: "0.0.0.0",
	}
}

// DefaultStoreConfig provides default record store settings
func DefaultStoreConfig() *StoreConfig {
	return &StoreConfig{
		Type: "memory",
		URI:  "mongodb://localhost:27017",
		Name: "waterhole",
	}
}

// DefaultSessionConfig provides default session store settings
func DefaultSessionConfig() *SessionConfig {
	return &SessionConfig{
		Type: "memory",
		Addr: "localhost:6379",
	}
}

// LoadConfig loads configuration from environment variables and applies defaults
func LoadConfig() (*Config, error) {
	// Try to load .env file from multiple possible locations
	envLocations := []string{
		".env",       // Current directory
		"../../.env", // Project root when running from cmd/server
	}

	envLoaded := false
	for _, location := range envLocations {
		if err := godotenv.Load(location); err == nil {
			envLoaded = true
			break
		}
	}

	if !envLoaded {
		// No .env file is fine, rely on the process environment
		_ = godotenv.Load()
	}

	serverConfig := DefaultServerConfig()

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			serverConfig.Port = port
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		serverConfig.Host = host
	}

	storeConfig := DefaultStoreConfig()

	if storeType := os.Getenv("STORE_TYPE"); storeType != "" {
		storeConfig.Type = storeType
	}
	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		storeConfig.URI = uri
		// An explicit connection string implies the Mongo-backed store
		if os.Getenv("STORE_TYPE") == "" {
			storeConfig.Type = "mongo"
		}
	}
	if name := os.Getenv("MONGODB_DB"); name != "" {
		storeConfig.Name = name
	}

	sessionConfig := DefaultSessionConfig()

	if sessionType := os.Getenv("SESSION_STORE"); sessionType != "" {
		sessionConfig.Type = sessionType
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		sessionConfig.Addr = addr
		if os.Getenv("SESSION_STORE") == "" {
			sessionConfig.Type = "redis"
		}
	}
	sessionConfig.Password = os.Getenv("REDIS_PASSWORD")

	config := &Config{
		Server:         serverConfig,
		Store:          storeConfig,
		Session:        sessionConfig,
		AllowedOrigins: []string{"*"}, // Default to allow all origins
		Debug:          false,
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		config.AllowedOrigins = strings.Split(origins, ",")
	}

	if debug := os.Getenv("DEBUG"); debug == "true" {
		config.Debug = true
	}

	return config, nil
}
