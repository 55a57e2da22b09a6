package growth

const (
	DefaultMaxIterations = 1000
	DefaultTolerance     = 1e-10
	DefaultPeakThreshold = 0.95
)

type Config struct {
	MaxIterations int     `yaml:"maxIterations" json:"maxIterations" validate:"gte=0"`
	FTol          float64 `yaml:"fTol" json:"fTol" validate:"gte=0"`
	XTol          float64 `yaml:"xTol" json:"xTol" validate:"gte=0"`
	GTol          float64 `yaml:"gTol" json:"gTol" validate:"gte=0"`

	PeakThreshold float64 `yaml:"peakThreshold" json:"peakThreshold" validate:"gte=0,lt=1"`
}

func (cfg *Config) FillDefaults() {
	if cfg.MaxIterations == 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}

	if cfg.FTol == 0 {
		cfg.FTol = DefaultTolerance
	}

	if cfg.XTol == 0 {
		cfg.XTol = DefaultTolerance
	}

	if cfg.GTol == 0 {
		cfg.GTol = DefaultTolerance
	}

	if cfg.PeakThreshold == 0 {
		cfg.PeakThreshold = DefaultPeakThreshold
	}
}
