package config

import "time"

// File is the structure of the vgren.yaml configuration file.
type File struct {
	Mode            string        `yaml:"mode"`
	Debug           *bool         `yaml:"debug"`
	Optimize        *bool         `yaml:"optimize"`
	StrictAccompany bool          `yaml:"strictAccompany"`
	LockTimeout     time.Duration `yaml:"lockTimeout"`
	CompileTimeout  time.Duration `yaml:"compileTimeout"`
	Compiler        CompilerDTO   `yaml:"compiler"`
	Daemon          DaemonDTO     `yaml:"daemon"`
	Watch           WatchDTO      `yaml:"watch"`
}

// CompilerDTO holds the options passed to the gren compiler.
type CompilerDTO struct {
	PathToGren string            `yaml:"pathToGren"`
	Cwd        string            `yaml:"cwd"`
	Debug      *bool             `yaml:"debug"`
	Optimize   *bool             `yaml:"optimize"`
	Verbose    *bool             `yaml:"verbose"`
	Output     string            `yaml:"output"`
	Report     string            `yaml:"report"`
	Docs       string            `yaml:"docs"`
	Env        map[string]string `yaml:"env"`
}

// DaemonDTO holds the daemon settings.
type DaemonDTO struct {
	Socket      string        `yaml:"socket"`
	IdleTimeout time.Duration `yaml:"idleTimeout"`
}

// WatchDTO holds the watcher settings.
type WatchDTO struct {
	Debounce time.Duration `yaml:"debounce"`
}

// compilerOptions lists the keys accepted under "compiler".
var compilerOptions = map[string]bool{
	"pathToGren": true,
	"cwd":        true,
	"debug":      true,
	"optimize":   true,
	"verbose":    true,
	"output":     true,
	"report":     true,
	"docs":       true,
	"env":        true,
}

// removedCompilerOptions maps options of older gren releases to the reason they are rejected.
var removedCompilerOptions = map[string]string{
	"yes":        "`yes` option was removed in Gren 0.19",
	"warn":       "`warn` option was removed in Gren 0.19",
	"pathToMake": "`pathToMake` was renamed to `pathToGren` in Gren 0.19",
}
