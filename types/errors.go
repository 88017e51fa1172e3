package types

import "fmt"

// ConfigError reports a missing or invalid configuration option.
type ConfigError struct {
	Option string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Option == "" {
		return fmt.Sprintf("config error: %s", e.Reason)
	}
	return fmt.Sprintf("config error: option %q: %s", e.Option, e.Reason)
}

// FetchError reports a failure talking to the price provider: bad token,
// unsupported zone, or an unreachable or unhappy upstream.
type FetchError struct {
	Reason string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("fetch error: %s", e.Reason)
}

func (e *FetchError) Unwrap() error { return e.Err }

// NormalizationError reports an unresolvable timezone or malformed
// timestamps in the fetched series.
type NormalizationError struct {
	Reason string
	Err    error
}

func (e *NormalizationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("normalization error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("normalization error: %s", e.Reason)
}

func (e *NormalizationError) Unwrap() error { return e.Err }

// ExportError reports an unwritable destination or unsupported format.
type ExportError struct {
	Reason string
	Err    error
}

func (e *ExportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("export error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("export error: %s", e.Reason)
}

func (e *ExportError) Unwrap() error { return e.Err }
