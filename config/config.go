// Package config provides configuration structures for the application.
package config

type Config struct {
	Spec       string   `json:"spec" yaml:"spec" mapstructure:"spec"`
	BaseURL    string   `json:"baseUrl" yaml:"baseUrl" mapstructure:"baseUrl"`
	Output     string   `json:"output" yaml:"output" mapstructure:"output"`
	StorageDir string   `json:"storageDir" yaml:"storageDir" mapstructure:"storageDir"`
	Debug      bool     `json:"debug" yaml:"debug" mapstructure:"debug"`
	ConfigPath string   `json:"configPath" yaml:"configPath" mapstructure:"configPath"`
	Generate   Generate `json:"generate" yaml:"generate" mapstructure:"generate"`
	Run        Run      `json:"run" yaml:"run" mapstructure:"run"`
	Report     Report   `json:"report" yaml:"report" mapstructure:"report"`
	Server     Server   `json:"server" yaml:"server" mapstructure:"server"`
}

type Generate struct {
	Seed  int64    `json:"seed" yaml:"seed" mapstructure:"seed"`
	Types []string `json:"types" yaml:"types" mapstructure:"types"`
}

type Run struct {
	Cases      string            `json:"cases" yaml:"cases" mapstructure:"cases"`
	Timeout    uint64            `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
	Parallel   bool              `json:"parallel" yaml:"parallel" mapstructure:"parallel"`
	Workers    int               `json:"workers" yaml:"workers" mapstructure:"workers"`
	RateLimit  float64           `json:"rateLimit" yaml:"rateLimit" mapstructure:"rateLimit"`
	Vars       map[string]string `json:"vars" yaml:"vars" mapstructure:"vars"`
	Headers    map[string]string `json:"headers" yaml:"headers" mapstructure:"headers"`
	Verbose    bool              `json:"verbose" yaml:"verbose" mapstructure:"verbose"`
	SuiteNames []string          `json:"suiteNames" yaml:"suiteNames" mapstructure:"suiteNames"`
}

type Report struct {
	Formats []string `json:"formats" yaml:"formats" mapstructure:"formats"`
	Path    string   `json:"path" yaml:"path" mapstructure:"path"`
}

type Server struct {
	Host string `json:"host" yaml:"host" mapstructure:"host"`
	Port uint32 `json:"port" yaml:"port" mapstructure:"port"`
}
