package cmd

import (
	"errors"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/jobsight/internal/ai"
	"github.com/spigell/jobsight/internal/filtering"
	"github.com/spigell/jobsight/internal/jobsight"
	"github.com/spigell/jobsight/internal/storage"
)

const (
	app       = "jobsight"
	envPrefix = "JOBSIGHT"
)

type Config struct {
	APIURL    string            `mapstructure:"api-url"`
	UserAgent string            `mapstructure:"user-agent"`
	Timeout   time.Duration     `mapstructure:"timeout"`
	Storage   storage.Config    `mapstructure:"storage"`
	Session   *SessionConfig    `mapstructure:"session"`
	Search    *SearchConfig     `mapstructure:"search"`
	Filters   *filtering.Config `mapstructure:"filters"`
	Roadmap   *RoadmapConfig    `mapstructure:"roadmap"`
}

type SessionConfig struct {
	// Remember keeps the bearer token in the OS keychain between runs.
	Remember  bool   `mapstructure:"remember"`
	TokenFile string `mapstructure:"token-file"`
	Account   string `mapstructure:"account"`
}

type SearchConfig struct {
	jobsight.SearchParams `mapstructure:",squash"`
	Sort                  string `mapstructure:"sort"`
}

type RoadmapConfig struct {
	Precise *PreciseConfig `mapstructure:"precise"`
}

type PreciseConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobsight is a terminal client for exploring jobs, comparing offers and planning a career roadmap",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobsight.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("api-url", jobsight.DefaultAPIURL, "JobSight backend URL")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("api-url", rootCmd.PersistentFlags().Lookup("api-url"))

	setDefaults()
}

func setDefaults() {
	viper.SetDefault("user-agent", jobsight.DefaultUserAgent)
	viper.SetDefault("timeout", 15*time.Second)
	viper.SetDefault("storage.driver", storage.DriverFile)
	viper.SetDefault("storage.path", "")
	viper.SetDefault("session.remember", true)
	viper.SetDefault("session.token-file", "")
	viper.SetDefault("session.account", "")
	viper.SetDefault("search.sort", string(filtering.SortDate))
	viper.SetDefault("roadmap.precise.provider", ai.ProviderBackend)
	viper.SetDefault("roadmap.precise.gemini.api-key", "")
	viper.SetDefault("roadmap.precise.gemini.api-key-file", "")
	viper.SetDefault("roadmap.precise.gemini.model", "")
	viper.SetDefault("roadmap.precise.gemini.max-log-length", 0)
}

func initConfig() {
	// A missing .env is fine, a broken one is not.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional unless it was asked for explicitly.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config.Session == nil {
		config.Session = &SessionConfig{}
	}
	if config.Search == nil {
		config.Search = &SearchConfig{}
	}
	if config.Filters == nil {
		config.Filters = &filtering.Config{}
	}
	if config.Roadmap == nil {
		config.Roadmap = &RoadmapConfig{}
	}
	if config.Roadmap.Precise == nil {
		config.Roadmap.Precise = &PreciseConfig{Provider: ai.ProviderBackend}
	}

	return config, nil
}
