package grid

// ConfigurationError reports board parameters that no valid layout can
// satisfy. Generation fails fast with it and leaves no partially built
// layout behind.
type ConfigurationError struct {
	message string
}

// [ConfigurationError] implements [error]
func (e ConfigurationError) Error() string {
	return e.message
}
