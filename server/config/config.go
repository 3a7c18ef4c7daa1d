package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	envPrefix = "NVDMAP"
)

const (
	DefaultInputPath  = "./nvdcve-1.1-modified.json"
	DefaultOutputPath = "./nvdcve-mapped.json"
)

// InputConfig defines configs related to the NVD feed being read
type InputConfig struct {
	Path string
}

// OutputConfig defines configs related to the NDJSON file being written
type OutputConfig struct {
	Path string
}

// CVSSConfig defines configs related to CVSS vector handling
type CVSSConfig struct {
	VerifyScores bool `yaml:"verify_scores"`
}

// LoggingConfig defines configs related to logging
type LoggingConfig struct {
	Debug bool
	JSON  bool
	File  string
}

// MapperConfig stores the application configuration. Each subcategory is
// broken up into it's own struct, defined above. When editing any of these
// structs, Manager.addConfigs and Manager.LoadConfig should be
// updated to set and retrieve the configurations as appropriate.
type MapperConfig struct {
	Input   InputConfig
	Output  OutputConfig
	CVSS    CVSSConfig
	Logging LoggingConfig
}

// addConfigs adds the configuration keys and default values that will be
// filled into the MapperConfig struct
func (man Manager) addConfigs() {
	// Input
	man.addConfigString("input.path", DefaultInputPath,
		"Path to the NVD CVE 1.1 JSON feed (.gz, .bz2, .xz and .zst are decompressed)")

	// Output
	man.addConfigString("output.path", DefaultOutputPath,
		"Path of the NDJSON file to write (.gz and .zst are compressed)")

	// CVSS
	man.addConfigBool("cvss.verify_scores", false,
		"Log a warning when a feed base score does not match the score computed from its vector")

	// Logging
	man.addConfigBool("logging.debug", false,
		"Enable debug logging")
	man.addConfigBool("logging.json", false,
		"Log in JSON format")
	man.addConfigString("logging.file", "",
		"Write logs to this file (rotated) instead of stderr")
}

// LoadConfig will load the config variables into a fully initialized
// MapperConfig struct
func (man Manager) LoadConfig() MapperConfig {
	man.loadConfigFile()

	return MapperConfig{
		Input: InputConfig{
			Path: man.getConfigString("input.path"),
		},
		Output: OutputConfig{
			Path: man.getConfigString("output.path"),
		},
		CVSS: CVSSConfig{
			VerifyScores: man.getConfigBool("cvss.verify_scores"),
		},
		Logging: LoggingConfig{
			Debug: man.getConfigBool("logging.debug"),
			JSON:  man.getConfigBool("logging.json"),
			File:  man.getConfigString("logging.file"),
		},
	}
}

// IsSet determines whether a given config key has been explicitly set by any
// of the configuration sources. If false, the default value is being used.
func (man Manager) IsSet(key string) bool {
	return man.viper.IsSet(key)
}

// envNameFromConfigKey converts a config key into the corresponding
// environment variable name
func envNameFromConfigKey(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.Replace(key, ".", "_", -1))
}

// flagNameFromConfigKey converts a config key into the corresponding flag name
func flagNameFromConfigKey(key string) string {
	return strings.Replace(key, ".", "_", -1)
}

// Manager manages the addition and retrieval of config values for the
// mapper. It's only public API method is LoadConfig, which will return the
// populated MapperConfig struct.
type Manager struct {
	viper    *viper.Viper
	command  *cobra.Command
	defaults map[string]interface{}
}

// NewManager initializes a Manager wrapping the provided cobra
// command. All config flags will be attached to that command (and inherited by
// the subcommands). Typically this should be called just once, with the root
// command.
func NewManager(command *cobra.Command) Manager {
	man := Manager{
		viper:    viper.New(),
		command:  command,
		defaults: map[string]interface{}{},
	}
	man.addConfigs()
	return man
}

// addDefault will check for duplication, then add a default value to the
// defaults map
func (man Manager) addDefault(key string, defVal interface{}) {
	if _, exists := man.defaults[key]; exists {
		panic("Trying to add duplicate config for key " + key)
	}

	man.defaults[key] = defVal
}

func getFlagUsage(key string, usage string) string {
	return fmt.Sprintf("Env: %s\n\t\t%s", envNameFromConfigKey(key), usage)
}

// getInterfaceVal is a helper function used by the getConfig* functions to
// retrieve the config value as interface{}, which will then be cast to the
// appropriate type by the getConfig* function.
func (man Manager) getInterfaceVal(key string) interface{} {
	interfaceVal := man.viper.Get(key)
	if interfaceVal == nil {
		var ok bool
		interfaceVal, ok = man.defaults[key]
		if !ok {
			panic("Tried to look up default value for nonexistent config option: " + key)
		}
	}
	return interfaceVal
}

// addConfigString adds a string config to the config options
func (man Manager) addConfigString(key, defVal, usage string) {
	man.command.PersistentFlags().String(flagNameFromConfigKey(key), defVal, getFlagUsage(key, usage))
	man.viper.BindPFlag(key, man.command.PersistentFlags().Lookup(flagNameFromConfigKey(key))) //nolint:errcheck
	man.viper.BindEnv(key, envNameFromConfigKey(key))                                          //nolint:errcheck

	// Add default
	man.addDefault(key, defVal)
}

// getConfigString retrieves a string from the loaded config
func (man Manager) getConfigString(key string) string {
	interfaceVal := man.getInterfaceVal(key)
	stringVal, err := cast.ToStringE(interfaceVal)
	if err != nil {
		panic("Unable to cast to string for key " + key + ": " + err.Error())
	}

	return stringVal
}

// addConfigBool adds a bool config to the config options
func (man Manager) addConfigBool(key string, defVal bool, usage string) {
	man.command.PersistentFlags().Bool(flagNameFromConfigKey(key), defVal, getFlagUsage(key, usage))
	man.viper.BindPFlag(key, man.command.PersistentFlags().Lookup(flagNameFromConfigKey(key))) //nolint:errcheck
	man.viper.BindEnv(key, envNameFromConfigKey(key))                                          //nolint:errcheck

	// Add default
	man.addDefault(key, defVal)
}

// getConfigBool retrieves a bool from the loaded config
func (man Manager) getConfigBool(key string) bool {
	interfaceVal := man.getInterfaceVal(key)
	boolVal, err := cast.ToBoolE(interfaceVal)
	if err != nil {
		panic("Unable to cast to bool for key " + key + ": " + err.Error())
	}

	return boolVal
}

// loadConfigFile handles the loading of the config file.
func (man Manager) loadConfigFile() {
	man.viper.SetConfigType("yaml")

	flag := man.command.PersistentFlags().Lookup("config")
	if flag == nil || flag.Value.String() == "" {
		// No config file set, only use configs from env
		// vars/flags/defaults
		return
	}

	man.viper.SetConfigFile(flag.Value.String())
	err := man.viper.ReadInConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config file:", err)
		os.Exit(1)
	}

	fmt.Fprintln(os.Stderr, "Using config file: ", man.viper.ConfigFileUsed())
}

// TestConfig returns a barebones configuration suitable for use in tests.
// Individual tests may want to override some of the values provided.
func TestConfig() MapperConfig {
	return MapperConfig{
		Input:  InputConfig{Path: DefaultInputPath},
		Output: OutputConfig{Path: DefaultOutputPath},
		Logging: LoggingConfig{
			Debug: true,
		},
	}
}
