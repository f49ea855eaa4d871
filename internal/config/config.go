package config

import (
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Port     string
	MongoURI string
	MongoDB  string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string
}

func LoadConfig() *Config {
	// Solo cargar .env en desarrollo local; en producción se ignora
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			zap.S().Warnw("⚠️ Error loading .env file", "error", err)
		} else {
			zap.S().Info("✅ .env file loaded successfully")
		}
	} else {
		zap.S().Info("🌐 Using system environment variables")
	}

	return &Config{
		Port:     getEnv("PORT", "3001"),
		MongoURI: getEnv("MONGO_URI", ""),
		MongoDB:  getEnv("MONGO_DB", "riftory"),

		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		CloudinaryFolder:    getEnv("CLOUDINARY_FOLDER", "riftory"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
