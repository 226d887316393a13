package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/templates"
	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/utils/pathutil"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	FilesystemLocal = "local"
	FilesystemS3    = "s3"
)

const envPrefix = "WORKSHOP"

type Config struct {
	Port           int            `mapstructure:"port"`
	Host           string         `mapstructure:"host"`
	Environment    string         `mapstructure:"environment"`
	WorkshopHome   string         `mapstructure:"workshop_home"`
	ModelsDir      string         `mapstructure:"models_dir"`
	StoreDir       string         `mapstructure:"store_dir"`
	TempDir        string         `mapstructure:"temp_dir"`
	PublicDir      string         `mapstructure:"public_dir"`
	FilesystemType string         `mapstructure:"filesystem_type"`
	Model          *ModelConfig   `mapstructure:"model"`
	Backend        *BackendConfig `mapstructure:"backend"`
	DB             *DBConfig      `mapstructure:"db"`
	S3             *S3Config      `mapstructure:"s3"`
}

// ModelConfig describes the artifact set handed to the archiver.
type ModelConfig struct {
	Name             string `mapstructure:"name"`
	Version          string `mapstructure:"version"`
	Handler          string `mapstructure:"handler"`
	CheckpointSource string `mapstructure:"checkpoint_source"`
	LabelsURL        string `mapstructure:"labels_url"`
}

// BackendConfig locates the serving container and its published ports.
type BackendConfig struct {
	Host           string `mapstructure:"host"`
	InferencePort  int    `mapstructure:"inference_port"`
	ManagementPort int    `mapstructure:"management_port"`
	ContainerName  string `mapstructure:"container_name"`
	Image          string `mapstructure:"image"`
	TimeoutSecs    int    `mapstructure:"timeout_secs"`
}

type DBConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type S3Config struct {
	Folder      string `mapstructure:"folder"`
	Region      string `mapstructure:"region_name"`
	Bucket      string `mapstructure:"bucket_name"`
	AccessKey   string `mapstructure:"access_key"`
	SecretKey   string `mapstructure:"secret_key"`
	EndpointUrl string `mapstructure:"endpoint_url"`
	PublicUrl   string `mapstructure:"public_url"`
}

var config *Config

// InitConfig resolves the workshop home directory, materializes default
// config files on first run, and loads everything into viper.
func InitConfig() error {
	home, err := getWorkshopHome()
	if err != nil {
		return err
	}

	if err := createHomeDirs(home); err != nil {
		return err
	}

	viper.Set("workshop_home", home)
	viper.SetDefault("models_dir", filepath.Join(home, "models"))
	viper.SetDefault("store_dir", filepath.Join(home, "model-store"))
	viper.SetDefault("temp_dir", filepath.Join(home, "temp"))
	setDefaults()

	envFile := viper.GetString("env_file")
	if envFile == "" {
		envFile = filepath.Join(home, ".env")
	}

	configFile := viper.GetString("config_file")
	if configFile == "" {
		configFile = filepath.Join(home, "config.yaml")
	}

	if _, err := os.Stat(envFile); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat .env file: %w", err)
		}

		if err := templates.WriteEnv(envFile); err != nil {
			return fmt.Errorf("failed to create .env file: %w", err)
		}
	}

	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}

	if _, err := os.Stat(configFile); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config.yaml file: %w", err)
		}

		if err := templates.WriteConfig(configFile); err != nil {
			return fmt.Errorf("failed to create config.yaml file: %w", err)
		}
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))
	viper.SetConfigFile(configFile)

	if err := LoadConfig(false); err != nil {
		if errors.As(err, &viper.ConfigFileNotFoundError{}) {
			fmt.Println("No config file found. Using default config.")
		} else {
			return err
		}
	}

	return nil
}

func LoadConfig(reload bool) error {
	if config != nil && !reload {
		return fmt.Errorf("config already loaded")
	}

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config: %w", err)
	}

	config = &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshalling config: %w", err)
	}

	return nil
}

func GetConfig() *Config {
	if config == nil {
		panic("config not loaded")
	}

	return config
}

func IsLoaded() bool {
	return config != nil
}

func setDefaults() {
	viper.SetDefault("host", "localhost")
	viper.SetDefault("port", DefaultFrontendPort)
	viper.SetDefault("environment", "dev")
	viper.SetDefault("filesystem_type", FilesystemLocal)
	viper.SetDefault("public_dir", "./web/public")

	viper.SetDefault("model.name", DefaultModelName)
	viper.SetDefault("model.version", DefaultModelVersion)
	viper.SetDefault("model.handler", DefaultHandler)
	viper.SetDefault("model.checkpoint_source", DefaultCheckpointURL)
	viper.SetDefault("model.labels_url", DefaultLabelsURL)

	viper.SetDefault("backend.host", "localhost")
	viper.SetDefault("backend.inference_port", DefaultInferencePort)
	viper.SetDefault("backend.management_port", DefaultManagementPort)
	viper.SetDefault("backend.container_name", DefaultContainerName)
	viper.SetDefault("backend.image", DefaultBackendImage)
	viper.SetDefault("backend.timeout_secs", DefaultTimeoutSecs)
}

// Returns the workshop home directory path.
// It attempts to retrieve it from the following sources in order:
// 1. The `workshop_home` flag from viper.
// 2. The `WORKSHOP_HOME` environment variable.
// 3. The default home directory.
func getWorkshopHome() (string, error) {
	home := viper.GetString("workshop_home")
	if home == "" {
		home = os.Getenv("WORKSHOP_HOME")
		if home == "" {
			home = DefaultWorkshopHome
		}
	}

	home, err := pathutil.ExpandPath(home)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrWorkshopHomeExpandFailed, err)
	}

	return home, nil
}

func createHomeDirs(home string) error {
	if err := os.MkdirAll(home, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create workshop home directory: %w", err)
	}

	for _, subdir := range []string{"models", "model-store", "temp"} {
		dir := filepath.Join(home, subdir)
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("failed to create %s directory: %w", subdir, err)
		}
	}

	return nil
}
