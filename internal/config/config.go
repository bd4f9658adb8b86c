package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env      string `yaml:"env" env:"ENV" env-default:"local" env-description:"Environment" env-choices:"local,dev,prod"`
	ApiPort  int    `yaml:"api_port" env:"PORT" env-default:"8080"`
	ApiHost  string `yaml:"api_host" env:"API_HOST" env-default:"localhost"`
	BaseUrl  string `yaml:"base_url" env:"BASE_URL" env-default:"http://localhost:8080"`
	Jwt      `yaml:"jwt"`
	Postgres `yaml:"postgres"`
}

type Jwt struct {
	Secret string        `yaml:"secret" env:"JWT_SECRET" env-required:"true"`
	Ttl    time.Duration `yaml:"ttl" env:"JWT_TTL" env-default:"24h"`
}

type Postgres struct {
	Host string `yaml:"host" env:"POSTGRES_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
	User string `yaml:"user" env:"POSTGRES_USER" env-default:"financeme"`
	Pass string `yaml:"pass" env:"POSTGRES_PASS" env-default:"financeme"`
	Db   string `yaml:"db" env:"POSTGRES_DB" env-default:"financeme"`
}

// MustLoad reads configuration from the yaml file named by -config or
// CONFIG_PATH, falling back to environment variables alone when no file
// is given.
func MustLoad() *Config {
	path := fetchConfigPath()

	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			panic("Failed to read config from environment: " + err.Error())
		}
		return &cfg
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		panic("config file does not exist: " + path)
	}

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		panic("Failed to read config: " + err.Error())
	}

	return &cfg
}

func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
