package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Redis      RedisConfig
	OpenAI     OpenAIConfig
	Generation GenerationConfig
	CacheTTLs  CacheTTLConfig
	Logger     LoggerConfig
	JWTSecret  string
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type OpenAIConfig struct {
	APIKey     string
	TextModel  string
	ImageModel string
}

type GenerationConfig struct {
	NumImages           int
	OutlineMaxTokens    int
	NotesMaxTokens      int
	ReferencesMaxTokens int
	QuizMaxTokens       int
}

type CacheTTLConfig struct {
	StudyPack string `yaml:"study_pack"`
	Session   string `yaml:"session"`
}

type LoggerConfig struct {
	Level string
	Env   string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Add config paths based on environment
	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../config")
		viper.AddConfigPath("../../")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Log the config file being used
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	config := &Config{
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: viper.GetDuration("server.write_timeout") * time.Second,
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		OpenAI: OpenAIConfig{
			APIKey:     viper.GetString("openai.api_key"),
			TextModel:  viper.GetString("openai.text_model"),
			ImageModel: viper.GetString("openai.image_model"),
		},
		Generation: GenerationConfig{
			NumImages:           viper.GetInt("generation.num_images"),
			OutlineMaxTokens:    viper.GetInt("generation.outline_max_tokens"),
			NotesMaxTokens:      viper.GetInt("generation.notes_max_tokens"),
			ReferencesMaxTokens: viper.GetInt("generation.references_max_tokens"),
			QuizMaxTokens:       viper.GetInt("generation.quiz_max_tokens"),
		},
		CacheTTLs: CacheTTLConfig{
			StudyPack: viper.GetString("cache_ttls.study_pack"),
			Session:   viper.GetString("cache_ttls.session"),
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
		JWTSecret: viper.GetString("jwt_secret"),
	}

	// Override with environment variables if set
	if port := os.Getenv("SERVER_PORT"); port != "" {
		config.Server.Port = viper.GetInt("SERVER_PORT")
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
	if openAIKey := os.Getenv("OPENAI_API_KEY"); openAIKey != "" {
		config.OpenAI.APIKey = openAIKey
	}
	if model := os.Getenv("MODEL_NAME"); model != "" {
		config.OpenAI.TextModel = model
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		config.JWTSecret = secret
	}

	if config.OpenAI.APIKey == "" {
		return nil, fmt.Errorf("openai api key not found: set openai.api_key in config.yaml or the OPENAI_API_KEY environment variable")
	}

	return config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 20)
	viper.SetDefault("server.write_timeout", 20)
	viper.SetDefault("openai.text_model", "gpt-4o")
	viper.SetDefault("openai.image_model", "dall-e-3")
	viper.SetDefault("generation.num_images", 3)
	viper.SetDefault("generation.outline_max_tokens", 300)
	viper.SetDefault("generation.notes_max_tokens", 6000)
	viper.SetDefault("generation.references_max_tokens", 2000)
	viper.SetDefault("generation.quiz_max_tokens", 1400)
	viper.SetDefault("cache_ttls.study_pack", "6h")
	viper.SetDefault("cache_ttls.session", "24h")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.env", "development")
}

// ParseTTLStringOrDefault parses a duration string from config, falling
// back to the given default when empty or malformed.
func (c *Config) ParseTTLStringOrDefault(ttlStr string, defaultTTL time.Duration) time.Duration {
	if ttlStr == "" {
		return defaultTTL
	}
	d, err := time.ParseDuration(ttlStr)
	if err != nil {
		return defaultTTL
	}
	return d
}
