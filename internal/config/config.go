package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultListenAddr = ":3000"
)

type IntutoConfig struct {
	ClientID     string `mapstructure:"clientID"`
	ClientSecret string `mapstructure:"clientSecret"`
	Sandbox      bool   `mapstructure:"sandbox"`
}

type MySQLConfig struct {
	Dsn         string `mapstructure:"dsn"`
	TablePrefix string `mapstructure:"tablePrefix"`
}

type RedisConfig struct {
	URL         string `mapstructure:"url"`
	PoolSize    int    `mapstructure:"poolSize"`
	ClusterMode bool   `mapstructure:"clusterMode"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	TLS      bool   `mapstructure:"tls"`
	CertFile string `mapstructure:"certFile"`
	KeyFile  string `mapstructure:"keyFile"`
	CAFile   string `mapstructure:"caFile"`
}

type MailConfig struct {
	Backend   string     `mapstructure:"backend"`
	AdminAddr string     `mapstructure:"adminAddr"`
	SMTP      SMTPConfig `mapstructure:"smtp"`
}

type Config struct {
	Debug        bool         `mapstructure:"debug"`
	SiteName     string       `mapstructure:"siteName"`
	BaseURL      string       `mapstructure:"baseURL"`
	ListenAddr   string       `mapstructure:"listenAddr"`
	AdminAPIKey  string       `mapstructure:"adminAPIKey"`
	AllowOrigins []string     `mapstructure:"allowOrigins"`
	Intuto       IntutoConfig `mapstructure:"intuto"`
	Redis        RedisConfig  `mapstructure:"redis"`
	MySQL        MySQLConfig  `mapstructure:"mysql"`
	Mail         MailConfig   `mapstructure:"mail"`
}

func (c *Config) Sanitize() error {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.BaseURL == "" {
		return errors.New("baseURL is required")
	}
	if c.Intuto.ClientID == "" || c.Intuto.ClientSecret == "" {
		return errors.New("intuto client credentials are required")
	}
	return nil
}

func LoadConfig(filename string) (*Config, error) {
	viper.SetConfigFile(filename)
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Sanitize(); err != nil {
		return nil, err
	}
	return &config, nil
}
