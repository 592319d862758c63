package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Settings holds everything read from the environment at startup.
type Settings struct {
	AppEnv            string
	AppPort           string
	DBDriver          string
	DBDSN             string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	JWTSecret         string
	CloudinaryURL     string
	CORSOrigin        string
	UploadMaxMB       int
	MessageStore      string
	MongoURI          string
	MongoDatabase     string
	AMQPURL           string
	AMQPExchange      string
	BatchSize         int
	OutboxMaxAttempts int
}

// Env is filled once by Init.
var Env Settings

// LoadEnv loads .env when present. It runs before the logger exists so that APP_ENV can pick the encoder.
func LoadEnv() bool {
	return godotenv.Load() == nil
}

// Init reads and validates the environment. Missing required values are fatal.
func Init(envFileLoaded bool) Settings {
	if !envFileLoaded {
		Logger.Info("No .env file found, using system environment variables")
	}

	Env = Settings{
		AppEnv:            getenv("APP_ENV", "development"),
		AppPort:           getenv("APP_PORT", "5005"),
		DBDriver:          getenv("DB_DRIVER", "mysql"),
		DBDSN:             os.Getenv("DB_DSN"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           getint("REDIS_DB", 0),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		CloudinaryURL:     os.Getenv("CLOUDINARY_URL"),
		CORSOrigin:        getenv("CORS_ORIGIN", "http://localhost:5173"),
		UploadMaxMB:       getint("UPLOAD_MAX_MB", 10),
		MessageStore:      getenv("MESSAGE_STORE", "sql"),
		MongoURI:          os.Getenv("MONGO_URI"),
		MongoDatabase:     getenv("MONGO_DATABASE", "snapgram"),
		AMQPURL:           os.Getenv("AMQP_URL"),
		AMQPExchange:      getenv("AMQP_EXCHANGE", "snapgram.events"),
		BatchSize:         getint("BATCH_SIZE", 100),
		OutboxMaxAttempts: getint("OUTBOX_MAX_ATTEMPTS", 5),
	}

	required := map[string]string{
		"DB_DSN":         Env.DBDSN,
		"REDIS_ADDR":     Env.RedisAddr,
		"JWT_SECRET":     Env.JWTSecret,
		"CLOUDINARY_URL": Env.CloudinaryURL,
	}
	for name, value := range required {
		if value == "" {
			Logger.Fatal(name + " is not set")
		}
	}

	if Env.MessageStore == "mongo" && Env.MongoURI == "" {
		Logger.Fatal("MONGO_URI is not set", zap.String("MESSAGE_STORE", Env.MessageStore))
	}

	return Env
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
