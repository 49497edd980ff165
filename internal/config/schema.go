package config

// Config holds the full set of recognized options, spec §4.13.
// The CLI loads it from the --config path, else ./config.yaml, else
// {home}/config.yaml.
type Config struct {
	Anchors   AnchorsConfig   `mapstructure:"anchors" yaml:"anchors" validate:"required"`
	Align     AlignConfig     `mapstructure:"align" yaml:"align" validate:"required"`
	BookIndex BookIndexConfig `mapstructure:"bookIndex" yaml:"bookIndex" validate:"required"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline" yaml:"pipeline" validate:"required"`
}

// AnchorsConfig mirrors AnchorPolicy plus the section-resolution knobs of
// spec §4.13.
type AnchorsConfig struct {
	NGram                       int    `mapstructure:"nGram" yaml:"nGram" validate:"min=1,max=10"`
	TargetPerTokens             int    `mapstructure:"targetPerTokens" yaml:"targetPerTokens" validate:"min=1"`
	MinSeparation               int    `mapstructure:"minSeparation" yaml:"minSeparation" validate:"min=1"`
	AllowBoundaryCross          bool   `mapstructure:"allowBoundaryCross" yaml:"allowBoundaryCross"`
	UseDomainStopwords          bool   `mapstructure:"useDomainStopwords" yaml:"useDomainStopwords"`
	DetectSection               bool   `mapstructure:"detectSection" yaml:"detectSection"`
	AsrPrefixTokens             int    `mapstructure:"asrPrefixTokens" yaml:"asrPrefixTokens" validate:"min=1"`
	EmitWindows                 bool   `mapstructure:"emitWindows" yaml:"emitWindows"`
	TryResolveSectionFromLabels bool   `mapstructure:"tryResolveSectionFromLabels" yaml:"tryResolveSectionFromLabels"`
	SectionOverride             string `mapstructure:"sectionOverride" yaml:"sectionOverride,omitempty"`
}

// AlignConfig mirrors the windowed aligner's cost parameters.
type AlignConfig struct {
	PhonemeSoftThreshold float64 `mapstructure:"phonemeSoftThreshold" yaml:"phonemeSoftThreshold" validate:"min=0,max=1"`
	MaxRun               int     `mapstructure:"maxRun" yaml:"maxRun" validate:"min=1"`
	MaxAvg               float64 `mapstructure:"maxAvg" yaml:"maxAvg" validate:"min=0"`
}

// BookIndexConfig mirrors the book indexer's duration-estimation knob.
type BookIndexConfig struct {
	AvgWpm float64 `mapstructure:"avgWpm" yaml:"avgWpm" validate:"min=1"`
}

// PipelineConfig mirrors the orchestrator's stage range, concurrency gates,
// and retry policy.
type PipelineConfig struct {
	StartStage        int         `mapstructure:"startStage" yaml:"startStage" validate:"min=1,max=7"`
	EndStage          int         `mapstructure:"endStage" yaml:"endStage" validate:"min=1,max=7"`
	Force             bool        `mapstructure:"force" yaml:"force"`
	AsrConcurrency    int         `mapstructure:"asrConcurrency" yaml:"asrConcurrency" validate:"min=1"`
	MfaConcurrency    int         `mapstructure:"mfaConcurrency" yaml:"mfaConcurrency" validate:"min=1"`
	MfaWorkspacePool  int         `mapstructure:"mfaWorkspacePool" yaml:"mfaWorkspacePool" validate:"min=1"`
	Retry             RetryConfig `mapstructure:"retry" yaml:"retry"`
}

// RetryConfig mirrors pipeline.retry.{maxAttempts, baseBackoffMs}.
type RetryConfig struct {
	MaxAttempts   int `mapstructure:"maxAttempts" yaml:"maxAttempts" validate:"min=1"`
	BaseBackoffMs int `mapstructure:"baseBackoffMs" yaml:"baseBackoffMs" validate:"min=1"`
}

// DefaultConfig returns configuration with the defaults documented in
// spec §4.13.
func DefaultConfig() *Config {
	return &Config{
		Anchors: AnchorsConfig{
			NGram:                       3,
			TargetPerTokens:             50,
			MinSeparation:               100,
			AllowBoundaryCross:          false,
			UseDomainStopwords:          true,
			DetectSection:               true,
			AsrPrefixTokens:             8,
			EmitWindows:                 true,
			TryResolveSectionFromLabels: true,
		},
		Align: AlignConfig{
			PhonemeSoftThreshold: 0.8,
			MaxRun:               8,
			MaxAvg:               0.6,
		},
		BookIndex: BookIndexConfig{
			AvgWpm: 200,
		},
		Pipeline: PipelineConfig{
			StartStage:       1,
			EndStage:         7,
			Force:            false,
			AsrConcurrency:   2,
			MfaConcurrency:   1,
			MfaWorkspacePool: 2,
			Retry: RetryConfig{
				MaxAttempts:   5,
				BaseBackoffMs: 500,
			},
		},
	}
}
