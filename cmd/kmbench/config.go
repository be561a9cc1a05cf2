package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/hupe1980/kmbench/dataset"
	"github.com/hupe1980/kmbench/jobscript"
)

const envPrefix = "KMBENCH"

// config is the merged view of kmbench.yaml, KMBENCH_* variables and
// command-line flags, in increasing priority.
type config struct {
	LogLevel    string                `mapstructure:"log_level"`
	LogFormat   string                `mapstructure:"log_format"`
	MetricsFile string                `mapstructure:"metrics_file"`
	Store       storeConfig           `mapstructure:"store"`
	Environment jobscript.Environment `mapstructure:"environment"`
	Dataset     dataset.Config        `mapstructure:"dataset"`
}

type storeConfig struct {
	// Kind is one of "", "local", "s3" or "minio". Empty disables the store.
	Kind        string `mapstructure:"kind"`
	Root        string `mapstructure:"root"`
	Bucket      string `mapstructure:"bucket"`
	Prefix      string `mapstructure:"prefix"`
	Region      string `mapstructure:"region"`
	Endpoint    string `mapstructure:"endpoint"`
	AccessKey   string `mapstructure:"access_key"`
	SecretKey   string `mapstructure:"secret_key"`
	Secure      bool   `mapstructure:"secure"`
	UploadLimit int    `mapstructure:"upload_limit"`
}

func setDefaults(v *viper.Viper) {
	env := jobscript.DefaultEnvironment()
	ds := dataset.DefaultConfig()

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("metrics_file", "")

	v.SetDefault("store.kind", "")
	v.SetDefault("store.root", "")
	v.SetDefault("store.bucket", "")
	v.SetDefault("store.prefix", "")
	v.SetDefault("store.region", "")
	v.SetDefault("store.endpoint", "")
	v.SetDefault("store.access_key", "")
	v.SetDefault("store.secret_key", "")
	v.SetDefault("store.secure", true)
	v.SetDefault("store.upload_limit", 0)

	v.SetDefault("environment.bin_dir", env.BinDir)
	v.SetDefault("environment.module_init", env.ModuleInit)
	v.SetDefault("environment.modules", env.Modules)
	v.SetDefault("environment.launcher", env.Launcher)

	v.SetDefault("dataset.num_points", ds.NumPoints)
	v.SetDefault("dataset.num_features", ds.NumFeatures)
	v.SetDefault("dataset.num_clusters", ds.NumClusters)
	v.SetDefault("dataset.spread", ds.Spread)
	v.SetDefault("dataset.box.min", ds.Box.Min)
	v.SetDefault("dataset.box.max", ds.Box.Max)
}

// newViper returns a viper instance reading kmbench.yaml from the working
// directory, or cfgFile when set, and KMBENCH_* environment variables.
func newViper(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("kmbench")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// bindFlags maps flags onto config keys so a flag set on the command line
// wins over the file and the environment.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) error {
	for flag, key := range keys {
		f := flags.Lookup(flag)
		if f == nil {
			return fmt.Errorf("unknown flag %q", flag)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}

func loadConfig(v *viper.Viper) (config, error) {
	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return config{}, fmt.Errorf("decode config: %w", err)
	}
	// The seed has no default, so Unmarshal misses KMBENCH_DATASET_SEED.
	if v.IsSet("dataset.seed") {
		seed := v.GetUint64("dataset.seed")
		cfg.Dataset.Seed = &seed
	}
	return cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", s, err)
	}
	return level, nil
}
