package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/akyairhashvil/sprintctl/internal/util"
)

// Config is the runtime configuration resolved from file, env and flags.
type Config struct {
	DBPath      string
	ReportsDir  string
	Locale      string
	LogLevel    string
	DefaultPlan int // weeks
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("db_path", filepath.Join(util.DataDir(AppName), DBFileName))
	v.SetDefault("reports_dir", util.ReportsDir(AppName))
	v.SetDefault("locale", DefaultLocale)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("sprint.default_weeks", DefaultPlanWeeks)
}

// Load reads the config file at path (or ~/.sprintctl/config.yaml when path is
// empty). A missing file is not an error.
func Load(v *viper.Viper, path string) (Config, error) {
	SetDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, "."+AppName))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := Config{
		DBPath:      util.ExpandHome(v.GetString("db_path")),
		ReportsDir:  util.ExpandHome(v.GetString("reports_dir")),
		Locale:      v.GetString("locale"),
		LogLevel:    v.GetString("log_level"),
		DefaultPlan: v.GetInt("sprint.default_weeks"),
	}
	return cfg, cfg.Validate()
}

// Validate checks the resolved values.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("db_path must not be empty")
	}
	switch c.DefaultPlan {
	case 1, 2, 4:
	default:
		return fmt.Errorf("sprint.default_weeks must be 1, 2 or 4, got %d", c.DefaultPlan)
	}
	return nil
}

// DefaultDuration returns the wizard duration choice matching DefaultPlan.
func (c Config) DefaultDuration() string {
	switch c.DefaultPlan {
	case 1:
		return DurationOneWeek
	case 4:
		return DurationFourWeeks
	default:
		return DurationTwoWeeks
	}
}
