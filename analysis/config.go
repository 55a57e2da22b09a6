package analysis

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/sgostarter/growthfit/growth"
	"gopkg.in/yaml.v3"
)

const (
	DefaultModel       = "logistic"
	DefaultDateField   = "data"
	DefaultYField      = "totale_casi"
	DefaultEntityField = "denominazione_regione"
	DefaultNationName  = "Italia"
	DefaultForwardDays = 7
)

type Config struct {
	Model       string `yaml:"model" json:"model" validate:"oneof=exponential logistic"`
	DateField   string `yaml:"dateField" json:"dateField" validate:"required"`
	YField      string `yaml:"yField" json:"yField" validate:"required"`
	EntityField string `yaml:"entityField" json:"entityField"`
	NationName  string `yaml:"nationName" json:"nationName" validate:"required"`

	// Shifts are subtracted from every value of the named entity.
	Shifts map[string]float64 `yaml:"shifts" json:"shifts"`

	ForwardDays   int     `yaml:"forwardDays" json:"forwardDays" validate:"gt=0,lte=365"`
	PeakThreshold float64 `yaml:"peakThreshold" json:"peakThreshold" validate:"gt=0,lt=1"`

	Parallel bool `yaml:"parallel" json:"parallel"`

	Fit growth.Config `yaml:"fit" json:"fit"`
}

func LoadConfig(fileName string) (cfg *Config, err error) {
	d, err := os.ReadFile(fileName)
	if err != nil {
		return
	}

	cfg = &Config{}

	err = yaml.Unmarshal(d, cfg)
	if err != nil {
		cfg = nil
		err = fmt.Errorf("%w: %s: %w", ErrInvalidConfig, fileName, err)

		return
	}

	cfg.FillDefaults()

	err = cfg.Validate()
	if err != nil {
		cfg = nil
	}

	return
}

func (cfg *Config) FillDefaults() {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	if kind, err := growth.ParseKind(cfg.Model); err == nil {
		cfg.Model = kind.String()
	}

	if cfg.DateField == "" {
		cfg.DateField = DefaultDateField
	}

	if cfg.YField == "" {
		cfg.YField = DefaultYField
	}

	if cfg.EntityField == "" {
		cfg.EntityField = DefaultEntityField
	}

	if cfg.NationName == "" {
		cfg.NationName = DefaultNationName
	}

	if cfg.ForwardDays == 0 {
		cfg.ForwardDays = DefaultForwardDays
	}

	if cfg.PeakThreshold == 0 {
		cfg.PeakThreshold = growth.DefaultPeakThreshold
	}

	cfg.Fit.PeakThreshold = cfg.PeakThreshold
	cfg.Fit.FillDefaults()
}

func (cfg *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())

	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}

func (cfg *Config) Shift(entity string) float64 {
	return cfg.Shifts[entity]
}
