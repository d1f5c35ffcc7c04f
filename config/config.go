package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Port  string `mapstructure:"port"`
	Debug bool   `mapstructure:"debug"`

	// AIProvider selects the generation backend: "openai" or "gemini".
	AIProvider    string   `mapstructure:"ai_provider"`
	AIEndpoint    string   `mapstructure:"ai_endpoint"`
	Model         string   `mapstructure:"model"`
	SystemPrompt  string   `mapstructure:"system_prompt"`
	OpenAIAPIKey  string   `mapstructure:"OPENAI_API_KEY"`
	GeminiAPIKeys []string `mapstructure:"gemini_api_keys"`

	MongoURI      string `mapstructure:"MONGODB_URI"`
	MongoDatabase string `mapstructure:"mongo_database"`

	TranscriptLanguage string   `mapstructure:"transcript_language"`
	ChunkSize          int      `mapstructure:"chunk_size"`
	ChunkOverlap       int      `mapstructure:"chunk_overlap"`
	YouTubeVideoIDs    []string `mapstructure:"youtube_video_ids"`

	EnableFollowUpQuestions bool `mapstructure:"enable_follow_up_questions"`
	EnableSources           bool `mapstructure:"enable_sources"`
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set up Viper to read from config file
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Set up Viper to read from environment variables
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("ai_provider", "openai")
	v.SetDefault("mongo_database", "docschat")
	v.SetDefault("transcript_language", "en")
	v.SetDefault("chunk_size", 500)
	v.SetDefault("chunk_overlap", 50)
	v.SetDefault("enable_follow_up_questions", true)
	v.SetDefault("enable_sources", true)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Bind environment variables
	v.BindEnv("OPENAI_API_KEY")
	v.BindEnv("MONGODB_URI")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}
