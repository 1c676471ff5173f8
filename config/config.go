package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Roboflow RoboflowConfig
	Data     DataConfig
}

type ServerConfig struct {
	Host string
	Port string
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type RoboflowConfig struct {
	Endpoint  string
	ProjectID string
	Version   string
	APIKey    string
	Timeout   time.Duration
}

type DataConfig struct {
	Dir string
	// FrameAreaCm2 overrides the assumed full-frame area used for pixel
	// calibration.
	FrameAreaCm2 float64
}

// Load builds the configuration from the environment. Every key has a
// working default except the Roboflow credentials, which have none on
// purpose: they must come from the environment, never from source.
func Load() *Config {
	v := viper.New()
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "5000")
	v.SetDefault("ROBOFLOW_ENDPOINT", "https://segment.roboflow.com")
	v.SetDefault("ROBOFLOW_PROJECT_ID", "")
	v.SetDefault("ROBOFLOW_VERSION", "1")
	v.SetDefault("ROBOFLOW_API_KEY", "")
	v.SetDefault("ROBOFLOW_TIMEOUT_SECONDS", 30)
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("FRAME_AREA_CM2", 400.0)
	v.AutomaticEnv()

	return &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetString("SERVER_PORT"),
		},
		Roboflow: RoboflowConfig{
			Endpoint:  v.GetString("ROBOFLOW_ENDPOINT"),
			ProjectID: v.GetString("ROBOFLOW_PROJECT_ID"),
			Version:   v.GetString("ROBOFLOW_VERSION"),
			APIKey:    v.GetString("ROBOFLOW_API_KEY"),
			Timeout:   time.Duration(v.GetInt("ROBOFLOW_TIMEOUT_SECONDS")) * time.Second,
		},
		Data: DataConfig{
			Dir:          v.GetString("DATA_DIR"),
			FrameAreaCm2: v.GetFloat64("FRAME_AREA_CM2"),
		},
	}
}
