package types

import "time"

// HTTPConfig holds shared HTTP settings used by every provider.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "litharvest/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// CacheTTL is how long a successful response body is reused for an
	// identical request within one process. Zero disables the cache.
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl" mapstructure:"cache_ttl"`
}

// OutputConfig controls where and how one provider's records are written.
type OutputConfig struct {
	// File is the output file name, relative to the run's output directory.
	File string `json:"file" yaml:"file" mapstructure:"file"`

	// WriteEmpty selects the empty-result policy: true writes a header-only
	// file, false writes no file at all.
	WriteEmpty bool `json:"write_empty" yaml:"write_empty" mapstructure:"write_empty"`
}

// CrossrefConfig holds settings for the Crossref works adapter.
type CrossrefConfig struct {
	OutputConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the works endpoint.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Rows caps the number of works requested per keyword (default 10).
	Rows int `json:"rows" yaml:"rows" mapstructure:"rows"`

	// Mailto is sent for Crossref polite-pool access. Optional.
	Mailto string `json:"mailto,omitempty" yaml:"mailto,omitempty" mapstructure:"mailto"`
}

// PubMedConfig holds settings for the NCBI E-utilities adapter.
type PubMedConfig struct {
	OutputConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the E-utilities root; esearch.fcgi and efetch.fcgi are
	// appended to it.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// RetMax caps the number of PubMed IDs requested per keyword (default 10).
	RetMax int `json:"retmax" yaml:"retmax" mapstructure:"retmax"`

	// RequestInterval is the fixed minimum spacing between E-utilities
	// calls (default 1s). Zero disables pacing.
	RequestInterval time.Duration `json:"request_interval" yaml:"request_interval" mapstructure:"request_interval"`

	// APIKey raises the NCBI rate limit. Optional.
	APIKey string `json:"-" yaml:"-" mapstructure:"-"`
}

// SpringerConfig holds settings for the Springer Nature Meta API adapter.
type SpringerConfig struct {
	OutputConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the meta/v2/json endpoint.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// PageSize caps the number of records requested per keyword (default 5).
	PageSize int `json:"page_size" yaml:"page_size" mapstructure:"page_size"`

	// APIKey is required; requests fail without it.
	APIKey string `json:"-" yaml:"-" mapstructure:"-"`
}

// WileyConfig holds settings for the Wiley Online Library SRU adapter.
type WileyConfig struct {
	OutputConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the SRU endpoint.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// MaxRecords caps the number of records requested per keyword (default 20).
	MaxRecords int `json:"max_records" yaml:"max_records" mapstructure:"max_records"`

	// DelayMin and DelayMax bound the uniform random delay applied before
	// every SRU request (defaults 5s and 10s). Zero for both disables the
	// delay.
	DelayMin time.Duration `json:"delay_min" yaml:"delay_min" mapstructure:"delay_min"`
	DelayMax time.Duration `json:"delay_max" yaml:"delay_max" mapstructure:"delay_max"`

	// BrowserUserAgent replaces HTTPConfig.UserAgent for SRU requests.
	BrowserUserAgent string `json:"browser_user_agent" yaml:"browser_user_agent" mapstructure:"browser_user_agent"`

	// APIKey is sent as a bearer token; requests fail without it.
	APIKey string `json:"-" yaml:"-" mapstructure:"-"`
}

// HarvestConfig groups the settings of a harvest run.
type HarvestConfig struct {
	HTTP HTTPConfig `json:"http" yaml:"http" mapstructure:"http"`

	// KeywordsFile is the flat keyword list, one term per line.
	KeywordsFile string `json:"keywords_file" yaml:"keywords_file" mapstructure:"keywords_file"`

	// OutputDir is the directory output files are written into.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// MissingMarker is how a missing field is rendered in tabular output
	// (default "N/A").
	MissingMarker string `json:"missing_marker" yaml:"missing_marker" mapstructure:"missing_marker"`

	Crossref CrossrefConfig `json:"crossref" yaml:"crossref" mapstructure:"crossref"`
	PubMed   PubMedConfig   `json:"pubmed" yaml:"pubmed" mapstructure:"pubmed"`
	Springer SpringerConfig `json:"springer" yaml:"springer" mapstructure:"springer"`
	Wiley    WileyConfig    `json:"wiley" yaml:"wiley" mapstructure:"wiley"`
}
