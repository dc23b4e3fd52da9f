package csvjson

// Options configures a conversion.
type Options struct {
	// MaxInputSize is the maximum input length in bytes. 0 means no limit.
	// Default: 0
	MaxInputSize int

	// Indent, if not empty, pretty-prints the JSON output using Indent for
	// each nesting level. Default: "" (compact)
	Indent string
}

// DefaultOptions returns the default conversion options.
func DefaultOptions() Options {
	return Options{
		MaxInputSize: 0,
		Indent:       "",
	}
}

// Validate checks if the options are valid.
func (o Options) Validate() error {
	if o.MaxInputSize < 0 {
		return &OptionsError{Field: "MaxInputSize", Message: "must not be negative"}
	}
	for _, c := range o.Indent {
		if c != ' ' && c != '\t' {
			return &OptionsError{Field: "Indent", Message: "must contain only spaces and tabs"}
		}
	}
	return nil
}

// OptionsError represents an invalid option configuration.
type OptionsError struct {
	Field   string
	Message string
}

func (e *OptionsError) Error() string {
	return "csvjson: invalid " + e.Field + ": " + e.Message
}
