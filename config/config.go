package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadENV loads environment variables from .env when GO_ENV is unset or development
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil {
			return err
		}
	}

	return nil
}

type EnviornmentVariable struct {
	// All variables
	GO_ENV       string
	DB_USER_NAME string
	DB_PASSWORD  string
	DB_NAME      string
	DB_HOST      string
	DB_PORT      string
	DB_SSL_MODE  string
	PORT         int
	// JWT Configuration (identity provider shared secret)
	JWT_SECRET string
	JWT_ISSUER string
	// Redis Configuration
	REDIS_URL string
	// Object storage (S3-compatible) for uploaded documents
	STORAGE_ACCESS_KEY string
	STORAGE_SECRET_KEY string
	STORAGE_BUCKET     string
	STORAGE_REGION     string
	STORAGE_ENDPOINT   string
	STORAGE_CDN_URL    string
	// Payment order API
	PAYMENT_API_URL string
	PAYMENT_API_KEY string
	// Media host index page scraped by cmd/extractpdf
	MEDIA_HOST_URL string
	BACKEND_URL    string
}

func Get() (*EnviornmentVariable, error) {

	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8080
	}

	// Database defaults
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}

	dbPort := os.Getenv("DB_PORT")
	if dbPort == "" {
		dbPort = "5432"
	}

	envVariables := &EnviornmentVariable{
		GO_ENV:       os.Getenv("GO_ENV"),
		DB_USER_NAME: os.Getenv("DB_USER_NAME"),
		DB_PASSWORD:  os.Getenv("DB_PASSWORD"),
		DB_NAME:      os.Getenv("DB_NAME"),
		DB_HOST:      dbHost,
		DB_PORT:      dbPort,
		DB_SSL_MODE:  os.Getenv("DB_SSL_MODE"),
		PORT:         port,
		// JWT
		JWT_SECRET: os.Getenv("JWT_SECRET"),
		JWT_ISSUER: os.Getenv("JWT_ISSUER"),
		// Redis
		REDIS_URL: os.Getenv("REDIS_URL"),
		// Object storage
		STORAGE_ACCESS_KEY: os.Getenv("STORAGE_ACCESS_KEY"),
		STORAGE_SECRET_KEY: os.Getenv("STORAGE_SECRET_KEY"),
		STORAGE_BUCKET:     os.Getenv("STORAGE_BUCKET"),
		STORAGE_REGION:     os.Getenv("STORAGE_REGION"),
		STORAGE_ENDPOINT:   os.Getenv("STORAGE_ENDPOINT"),
		STORAGE_CDN_URL:    os.Getenv("STORAGE_CDN_URL"),
		// Payment
		PAYMENT_API_URL: os.Getenv("PAYMENT_API_URL"),
		PAYMENT_API_KEY: os.Getenv("PAYMENT_API_KEY"),
		// Media host
		MEDIA_HOST_URL: os.Getenv("MEDIA_HOST_URL"),
		BACKEND_URL:    os.Getenv("BACKEND_URL"),
	}

	return envVariables, nil
}
