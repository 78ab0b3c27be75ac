package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

var singleConfig *Config = nil

type Config struct {
	Database *DatabaseConfig
	Service  *ServiceConfig
	Pipeline *PipelineConfig
	Pricing  *PricingConfig
	Storage  *StorageConfig
	SMTP     *SMTPConfig
}

type DatabaseConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"pgsql"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"claims"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
}

type ServiceConfig struct {
	Address        string `envconfig:"CLAIMS_ADDRESS" default:":3443"`
	MetricsAddress string `envconfig:"CLAIMS_METRICS_ADDRESS" default:":8080"`
	BaseUrl        string `envconfig:"CLAIMS_BASE_URL" default:"http://localhost:3443"`
	LogLevel       string `envconfig:"CLAIMS_LOG_LEVEL" default:"info"`
}

type PipelineConfig struct {
	// Interval between two scheduler passes over the whole pipeline.
	Interval time.Duration `envconfig:"CLAIMS_PIPELINE_INTERVAL" default:"5m"`
	// Minimum number of assessments before a job summary is marked ready
	// for claim formatting.
	ReadinessMinAssessments int `envconfig:"CLAIMS_READINESS_MIN_ASSESSMENTS" default:"1"`
	// Seed for the simulated integrations. Zero seeds from the clock.
	SimulationSeed int64 `envconfig:"CLAIMS_SIMULATION_SEED" default:"0"`
}

type PricingConfig struct {
	RoofUnitPrice       float64 `envconfig:"CLAIMS_PRICE_ROOF_SQFT" default:"4.50"`
	SidingUnitPrice     float64 `envconfig:"CLAIMS_PRICE_SIDING_SQFT" default:"3.75"`
	StructuralComponent float64 `envconfig:"CLAIMS_PRICE_STRUCTURAL_COMPONENT" default:"750.00"`
	WaterBaseUnitPrice  float64 `envconfig:"CLAIMS_PRICE_WATER_SQFT" default:"2.50"`
	DebrisUnitPrice     float64 `envconfig:"CLAIMS_PRICE_DEBRIS_CUYD" default:"45.00"`
	TaxRate             float64 `envconfig:"CLAIMS_TAX_RATE" default:"0.07"`
	ContractorShare     float64 `envconfig:"CLAIMS_CONTRACTOR_SHARE" default:"0.70"`
}

type StorageConfig struct {
	Type            string `envconfig:"CLAIMS_STORAGE_TYPE" default:"local"`
	LocalDir        string `envconfig:"CLAIMS_STORAGE_DIR" default:"photo_uploads"`
	Endpoint        string `envconfig:"CLAIMS_S3_ENDPOINT" default:""`
	Bucket          string `envconfig:"CLAIMS_S3_BUCKET" default:"storm-photos"`
	AccessKey       string `envconfig:"CLAIMS_S3_ACCESS_KEY" default:""`
	SecretAccessKey string `envconfig:"CLAIMS_S3_SECRET_KEY" default:""`
	UseSSL          bool   `envconfig:"CLAIMS_S3_USE_SSL" default:"false"`
}

type SMTPConfig struct {
	Host     string `envconfig:"CLAIMS_SMTP_HOST" default:""`
	Port     int    `envconfig:"CLAIMS_SMTP_PORT" default:"587"`
	Sender   string `envconfig:"CLAIMS_SMTP_SENDER" default:"payments@heartlandclaimspro.com"`
	Password string `envconfig:"CLAIMS_SMTP_PASS" default:""`
}

func New() (*Config, error) {
	if singleConfig == nil {
		singleConfig = new(Config)
		if err := envconfig.Process("", singleConfig); err != nil {
			return nil, err
		}
	}
	return singleConfig, nil
}

// NewDefault returns a config populated with defaults only, ignoring the
// environment. Used by tests.
func NewDefault() *Config {
	return &Config{
		Database: &DatabaseConfig{Type: "sqlite", Name: ":memory:"},
		Service:  &ServiceConfig{Address: ":3443", MetricsAddress: ":8080", LogLevel: "info"},
		Pipeline: &PipelineConfig{Interval: 5 * time.Minute, ReadinessMinAssessments: 1},
		Pricing: &PricingConfig{
			RoofUnitPrice:       4.50,
			SidingUnitPrice:     3.75,
			StructuralComponent: 750.00,
			WaterBaseUnitPrice:  2.50,
			DebrisUnitPrice:     45.00,
			TaxRate:             0.07,
			ContractorShare:     0.70,
		},
		Storage: &StorageConfig{Type: "local", LocalDir: "photo_uploads"},
		SMTP:    &SMTPConfig{},
	}
}
