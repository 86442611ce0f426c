// Package cmd defines the CLI surface of wiimoted.
package cmd

// Version is the daemon/CLI version reported by ping.
const Version = "0.1.0"

// LogConfig groups the logging flags shared by every command.
type LogConfig struct {
	Level   string `help:"Log level" enum:"trace,debug,info,warn,error" default:"info" env:"WIIMOTED_LOG_LEVEL"`
	File    string `help:"Write logs to this file instead of the console" env:"WIIMOTED_LOG_FILE"`
	RawFile string `help:"Write raw HID report hex dumps to this file" env:"WIIMOTED_LOG_RAW_FILE"`
}

// CLI is the root kong command tree.
type CLI struct {
	Log    LogConfig     `embed:"" prefix:"log."`
	Config string        `help:"Path to a config file (JSON/YAML/TOML)" env:"WIIMOTED_CONFIG"`
	Daemon Daemon        `cmd:"" help:"Run the wiimoted daemon"`
	Status Status        `cmd:"" help:"Show controller connection and battery state"`
	Batt   Battery       `cmd:"" name:"battery" help:"Ask the controller for a fresh battery reading"`
	Read   Read          `cmd:"" help:"Drain buffered event lines once"`
	Watch  Watch         `cmd:"" help:"Stream event lines as they arrive"`
	Cfg    ConfigCommand `cmd:"" name:"config" help:"Configuration helpers"`
}
