package types

// ConversionBackend identifies the primary conversion tool.
type ConversionBackend string

const (
	BackendPdftotext  ConversionBackend = "pdftotext"
	BackendMarkitdown ConversionBackend = "markitdown"
)

// BackendConfig holds settings for the conversion and OCR backends.
type BackendConfig struct {
	// Backend selects the primary conversion tool: pdftotext or markitdown.
	Backend ConversionBackend `json:"backend" yaml:"backend"`

	// Pdftotext is the pdftotext binary name or absolute path (default "pdftotext").
	Pdftotext string `json:"pdftotext,omitempty" yaml:"pdftotext,omitempty"`

	// Pdftoppm is the pdftoppm binary name or absolute path (default "pdftoppm").
	Pdftoppm string `json:"pdftoppm,omitempty" yaml:"pdftoppm,omitempty"`

	// Tesseract is the tesseract binary name or absolute path (default "tesseract").
	Tesseract string `json:"tesseract,omitempty" yaml:"tesseract,omitempty"`

	// TesseractLang is the OCR language passed to tesseract (default "eng").
	TesseractLang string `json:"tesseract_lang,omitempty" yaml:"tesseract_lang,omitempty"`

	// DPI is the rasterization resolution for the OCR pass (default 300).
	DPI int `json:"dpi,omitempty" yaml:"dpi,omitempty"`

	// MaxPages caps the number of pages rasterized during OCR; 0 means no limit.
	MaxPages int `json:"max_pages,omitempty" yaml:"max_pages,omitempty"`
}

// ValidatorConfig holds the tunable cutoffs for classifying a conversion
// result as accepted or suspect. The defaults were chosen empirically;
// operators adjust them per corpus rather than relying on fixed constants.
type ValidatorConfig struct {
	// SizeThresholdBytes marks a target as suspect when the source is large
	// but the produced output falls below this size (default 15 KB).
	SizeThresholdBytes int64 `json:"size_threshold_bytes" yaml:"size_threshold_bytes"`

	// LargeSourceBytes is the size at which a source clearly contains
	// substantial content, e.g. multiple pages (default 100 KB).
	LargeSourceBytes int64 `json:"large_source_bytes" yaml:"large_source_bytes"`

	// MinValidRatio is the minimum fraction of non-whitespace characters a
	// target must contain to be accepted (default 0.1).
	MinValidRatio float64 `json:"min_valid_ratio" yaml:"min_valid_ratio"`
}

// RunConfig groups all settings for one batch run.
type RunConfig struct {
	// Workers is the worker pool size (default 4, must be at least 1).
	Workers int `json:"workers" yaml:"workers"`

	Backend   BackendConfig   `json:"backend_config" yaml:"backend_config"`
	Validator ValidatorConfig `json:"validator" yaml:"validator"`

	// SummaryFile, when set, is where the YAML batch summary is written.
	SummaryFile string `json:"summary_file,omitempty" yaml:"summary_file,omitempty"`

	// LedgerPath, when set, is the SQLite file recording batch history.
	LedgerPath string `json:"ledger_path,omitempty" yaml:"ledger_path,omitempty"`
}
