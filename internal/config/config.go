package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/go-yaml/yaml"
	"github.com/pkg/errors"
)

type Config struct {
	App    App    `yaml:"app"`
	Server Server `yaml:"server"`
}

type App struct {
	ArtistName             string   `yaml:"artistName"`
	SecretKey              string   `yaml:"secretKey"`
	PublicBaseURL          string   `yaml:"publicBaseURL"`
	BoxTokenMaxAge         Duration `yaml:"boxTokenMaxAge"`
	AllowedImageExtensions []string `yaml:"allowedImageExtensions"`
}

type Server struct {
	ListenAddr     string   `yaml:"listenAddr"`
	DatabaseDriver string   `yaml:"databaseDriver"` // postgres, sqlite
	DatabaseDsn    string   `yaml:"databaseDsn"`
	DataDir        string   `yaml:"dataDir"`
	UploadDir      string   `yaml:"uploadDir"`
	RedisAddr      string   `yaml:"redisAddr"`
	RedisDB        int      `yaml:"redisDB"`
	MemcachedAddr  string   `yaml:"memcachedAddr"`
	EnableTrace    bool     `yaml:"enableTrace"`
	TraceEndpoint  string   `yaml:"traceEndpoint"`
	ChromeBin      string   `yaml:"chromeBin"`
	RenderTimeout  Duration `yaml:"renderTimeout"`
	RenderSettle   Duration `yaml:"renderSettle"`
	RenderCacheTTL Duration `yaml:"renderCacheTTL"`
	S3             S3       `yaml:"s3"`
	LogLevel       string   `yaml:"logLevel"`
	LogFormat      string   `yaml:"logFormat"`
}

type S3 struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
}

// Duration accepts Go duration strings ("60s", "43800h") in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return errors.Wrapf(err, "invalid duration %q", s)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

const fiveYears = 5 * 365 * 24 * time.Hour

func Default() Config {
	return Config{
		App: App{
			ArtistName:             "Miet Warlop",
			SecretKey:              "dev-change-me",
			BoxTokenMaxAge:         Duration(fiveYears),
			AllowedImageExtensions: []string{"jpg", "jpeg", "png"},
		},
		Server: Server{
			ListenAddr:     ":8000",
			DatabaseDriver: "sqlite",
			DataDir:        ".",
			RenderTimeout:  Duration(60 * time.Second),
			RenderSettle:   Duration(150 * time.Millisecond),
			RenderCacheTTL: Duration(10 * time.Minute),
			LogLevel:       "info",
			LogFormat:      "text",
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	config := Default()

	file, err := os.Open(path)
	if err == nil {
		defer file.Close()
		err = yaml.NewDecoder(file).Decode(&config)
		if err != nil {
			return Config{}, errors.Wrapf(err, "decode %s", path)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, err
	}

	config.applyEnv(os.Getenv)
	config.fillDerived()

	return config, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("DATA_DIR"); v != "" {
		c.Server.DataDir = v
	}
	if v := getenv("SECRET_KEY"); v != "" {
		c.App.SecretKey = v
	}
	if v := getenv("ARTIST_NAME"); v != "" {
		c.App.ArtistName = v
	}
	if v := getenv("PUBLIC_BASE_URL"); v != "" {
		c.App.PublicBaseURL = v
	}
	if v := getenv("DATABASE_DSN"); v != "" {
		c.Server.DatabaseDsn = v
	}
}

func (c *Config) fillDerived() {
	if c.Server.UploadDir == "" {
		c.Server.UploadDir = filepath.Join(c.Server.DataDir, "uploads")
	}
	if c.Server.DatabaseDsn == "" && c.Server.DatabaseDriver == "sqlite" {
		c.Server.DatabaseDsn = filepath.Join(c.Server.DataDir, "database.db")
	}
}
