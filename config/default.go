package config

// New returns the default configuration. Flags and the optional config
// file are merged over these values by the CLI.
func New() *Config {
	return &Config{
		StorageDir: ".apiforge",
		Generate: Generate{
			Types: []string{"positive", "equivalence", "boundary", "error_guess", "security"},
		},
		Run: Run{
			Timeout: 30,
			Workers: 5,
			Vars:    map[string]string{},
			Headers: map[string]string{},
		},
		Report: Report{
			Formats: []string{"console"},
		},
		Server: Server{
			Host: "localhost",
			Port: 8086,
		},
	}
}
