// Package config provides functionality for managing configuration options
// for the application using command-line flags, environment variables and an
// optional JSON config file.
//
// Precedence, highest first: flag, environment variable, config file, default.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/lostprophetsco/saasoft-tz/internal/storage"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config keys, shared by flags (with "_" spelled "-") and the config file.
const (
	KeyAddress     = "address"
	KeyStorage     = "storage"
	KeyPath        = "path"
	KeyDatabaseDSN = "database_dsn"
	KeyS3Bucket    = "s3_bucket"
	KeyS3Region    = "s3_region"
	KeyS3Endpoint  = "s3_endpoint"
	KeyS3Prefix    = "s3_prefix"
	KeyS3PathStyle = "s3_path_style"
	KeyTLSCert     = "tls_cert"
	KeyTLSKey      = "tls_key"
	KeyLogLevel    = "log_level"
	KeyConfig      = "config"
)

const defaultAddress = "localhost:8080"

// envNames maps each key to its environment variable.
var envNames = map[string]string{
	KeyAddress:     "SERVER_ADDRESS",
	KeyStorage:     "STORAGE_DRIVER",
	KeyPath:        "STORAGE_PATH",
	KeyDatabaseDSN: "DATABASE_DSN",
	KeyS3Bucket:    "S3_BUCKET",
	KeyS3Region:    "S3_REGION",
	KeyS3Endpoint:  "S3_ENDPOINT",
	KeyS3Prefix:    "S3_PREFIX",
	KeyS3PathStyle: "S3_PATH_STYLE",
	KeyTLSCert:     "TLS_CERT",
	KeyTLSKey:      "TLS_KEY",
	KeyLogLevel:    "LOG_LEVEL",
	KeyConfig:      "CONFIG",
}

// Options holds the configuration values for the application.
type Options struct {
	// Address defines the server's listening address (ip:port).
	Address string `mapstructure:"address"`

	// Storage selects the storage driver (file, memory, postgres, sqlite, s3).
	Storage string `mapstructure:"storage"`

	// Path is the data file for the file and sqlite drivers. Empty selects
	// the driver's default.
	Path string `mapstructure:"path"`

	// DatabaseDSN holds the postgres connection string.
	DatabaseDSN string `mapstructure:"database_dsn"`

	S3Bucket    string `mapstructure:"s3_bucket"`
	S3Region    string `mapstructure:"s3_region"`
	S3Endpoint  string `mapstructure:"s3_endpoint"`
	S3Prefix    string `mapstructure:"s3_prefix"`
	S3PathStyle bool   `mapstructure:"s3_path_style"`

	// TLSCert and TLSKey are PEM files; when both are set the server
	// serves HTTPS.
	TLSCert string `mapstructure:"tls_cert"`
	TLSKey  string `mapstructure:"tls_key"`

	// LogLevel is the zap level name. Empty leaves the choice to the binary.
	LogLevel string `mapstructure:"log_level"`

	// Config is the path to the JSON config file.
	Config string `mapstructure:"config"`
}

// RegisterFlags defines the storage, logging and config flags.
// Server-only flags are added by RegisterServerFlags.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.StringP(KeyConfig, "c", "config.json", "path to config file")
	flags.String(KeyStorage, storage.DriverFile, "storage driver: file, memory, postgres, sqlite, s3")
	flags.String(KeyPath, "", "data file for the file and sqlite drivers")
	flags.StringP("database-dsn", "d", "", "postgres connection string")
	flags.String("s3-bucket", "", "s3 bucket")
	flags.String("s3-region", "", "s3 region")
	flags.String("s3-endpoint", "", "custom s3 endpoint")
	flags.String("s3-prefix", "", "s3 object key prefix")
	flags.Bool("s3-path-style", false, "use path-style s3 addressing")
	flags.String("log-level", "", "log level: debug, info, warn, error")
}

// RegisterServerFlags defines the flags only the server uses.
func RegisterServerFlags(flags *pflag.FlagSet) {
	flags.StringP(KeyAddress, "a", defaultAddress, "run on ip:port server")
	flags.String("tls-cert", "", "server certificate PEM file")
	flags.String("tls-key", "", "server private key PEM file")
}

// Load resolves Options from flags, the environment and the config file.
// flags must have been set up with RegisterFlags and parsed. A missing config
// file is not an error; an unreadable or malformed one is.
func Load(flags *pflag.FlagSet) (*Options, error) {
	v := viper.New()

	v.SetDefault(KeyAddress, defaultAddress)
	v.SetDefault(KeyStorage, storage.DriverFile)
	v.SetDefault(KeyConfig, "config.json")

	for key, env := range envNames {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			if bindErr != nil {
				return
			}
			bindErr = v.BindPFlag(flagKey(f.Name), f)
		})
		if bindErr != nil {
			return nil, fmt.Errorf("bind flags: %w", bindErr)
		}
	}

	if path := v.GetString(KeyConfig); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var opts Options
	if err := v.Unmarshal(&opts); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if (opts.TLSCert == "") != (opts.TLSKey == "") {
		return nil, errors.New("tls_cert and tls_key must be set together")
	}
	return &opts, nil
}

// TLSEnabled reports whether the server should serve HTTPS.
func (o *Options) TLSEnabled() bool {
	return o.TLSCert != "" && o.TLSKey != ""
}

// StorageConfig converts the options into a storage driver configuration.
func (o *Options) StorageConfig() storage.Config {
	return storage.Config{
		Driver: o.Storage,
		Path:   o.Path,
		DSN:    o.DatabaseDSN,
		S3: storage.S3Config{
			Bucket:    o.S3Bucket,
			Region:    o.S3Region,
			Endpoint:  o.S3Endpoint,
			Prefix:    o.S3Prefix,
			PathStyle: o.S3PathStyle,
		},
	}
}

// flagKey maps a dashed flag name to its config key.
func flagKey(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}
