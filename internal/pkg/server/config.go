package server

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

// Config is a structure used to configure a GenericAPIServer.
type Config struct {
	Mode            string
	BindAddress     string
	BindPort        int
	Healthz         bool
	EnableProfiling bool

	// ShutdownTimeout bounds the graceful shutdown of in-flight requests.
	ShutdownTimeout time.Duration
}

// NewConfig returns a Config struct with the default values.
func NewConfig() *Config {
	return &Config{
		Mode:            gin.ReleaseMode,
		BindAddress:     "127.0.0.1",
		BindPort:        8501,
		Healthz:         true,
		EnableProfiling: false,
		ShutdownTimeout: 10 * time.Second,
	}
}

// CompletedConfig is the completed configuration for GenericAPIServer.
type CompletedConfig struct {
	*Config
}

// Complete fills in any fields not set that are required to have valid data.
func (c *Config) Complete() CompletedConfig {
	if c.Mode == "" {
		c.Mode = gin.ReleaseMode
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
	return CompletedConfig{c}
}

// Address joins the bind address and port.
func (c *Config) Address() string {
	return net.JoinHostPort(c.BindAddress, strconv.Itoa(c.BindPort))
}

// New returns a new instance of GenericAPIServer from the given config.
func (c CompletedConfig) New() (*GenericAPIServer, error) {
	gin.SetMode(c.Mode)

	s := &GenericAPIServer{
		address:         c.Address(),
		healthz:         c.Healthz,
		enableProfiling: c.EnableProfiling,
		shutdownTimeout: c.ShutdownTimeout,
		Engine:          gin.New(),
	}
	initGenericAPIServer(s)

	return s, nil
}

// LoadConfig reads the configuration file into viper and binds the
// environment. cfg names a file; when empty, <defaultName>.yaml is looked up
// in the working directory and the home directory. A missing default file is
// not an error.
func LoadConfig(cfg string, defaultName string) error {
	if cfg != "" {
		viper.SetConfigFile(cfg)
	} else {
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, "."+defaultName))
		}
		viper.SetConfigName(defaultName)
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix(strings.ToUpper(defaultName))
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfg == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read configuration file(%s): %w", cfg, err)
	}
	return nil
}
