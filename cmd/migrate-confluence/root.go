package main

import (
	"errors"
	"fmt"
	"os"
	"reflect"

	"github.com/fatih/structs"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

var (
	// Store the result of binding cobra flags
	Config string
	Debug  bool

	// Where the produced map stores land
	OutputDir   string
	StoreFormat string

	ParsedConfig YamlConfig
)

// Build the cobra command that handles our command line tool.
var rootCmd = &cobra.Command{
	Use:   "migrate-confluence",
	Short: "Derive migration metadata from a Confluence XML export",
	Long: `
Analyze the entities.xml of a Confluence space export and produce the lookup
tables (namespace prefixes, hierarchical page titles, attachment filenames and
source paths, revision fingerprints) that the later conversion stages of a
wiki migration consume.
`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initializeConfig(cmd); err != nil {
			return fmt.Errorf("migrate-confluence: failed to initialise config: %w", err)
		}
		return nil
	},
}

func init() {
	// Define cobra flags, the default value has the lowest (least significant) precedence
	rootCmd.PersistentFlags().StringVar(&Config, "config", "", "config file location (default: ~/.config/migrate-confluence.yaml, respects MIGRATE_CONFLUENCE_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "display debug output")
	rootCmd.PersistentFlags().StringVar(&OutputDir, "out", "", "directory to write the produced map stores to")
	rootCmd.PersistentFlags().StringVar(&StoreFormat, "format", "yaml", "map store format, yaml or sqlite")
}

func initializeConfig(cmd *cobra.Command) error {
	if Config == "" {
		// Did the user provide an ENV?
		envConfig := os.Getenv("MIGRATE_CONFLUENCE_CONFIG")
		if envConfig != "" {
			Config = envConfig
		} else {
			// As fallback, search for config in home XDG-ish directory
			Config = "~/.config/migrate-confluence.yaml"
		}
	}
	config, err := homedir.Expand(Config)
	if err != nil {
		return fmt.Errorf("migrate-confluence: unable to expand homedir: %w", err)
	}
	Config = config

	if _, err := os.Stat(Config); errors.Is(err, os.ErrNotExist) {
		// Fine -- the config file is optional, all settings have flags.
		return nil
	}

	yamlFile, err := os.ReadFile(Config)
	if err != nil {
		return fmt.Errorf("migrate-confluence: error reading config file: %w", err)
	}

	// I'd like to bark if a user sets a key we don't recognise:
	if err := yaml.UnmarshalStrict(yamlFile, &ParsedConfig); err != nil {
		return fmt.Errorf("migrate-confluence: issue parsing config file: %w", err)
	}

	if err := bindFlags(cmd, ParsedConfig); err != nil {
		return fmt.Errorf("migrate-confluence: failed to bind flags: %w", err)
	}

	return nil
}

type YamlConfig struct {
	Out    string `yaml:"out"`
	Format string `yaml:"format"`

	AllXML  *bool `yaml:"all-xml"`
	Workers *int  `yaml:"workers"`
}

// Bind each cobra flag to its associated config file key.  Flags set on the
// command line win over the file.
func bindFlags(cmd *cobra.Command, v YamlConfig) error {
	for _, field := range structs.Fields(v) {
		key := field.Tag("yaml")
		if key == "" {
			return fmt.Errorf("migrate-confluence: could not retrieve struct tag 'yaml'")
		}
		if flag := cmd.Flag(key); flag == nil {
			// the flag is unknown.  that can legitimately happen when running
			// a subcommand that doesn't define it but the YAML file does.
			continue
		}
		if !cmd.Flags().Changed(key) {
			switch field.Kind() {
			case reflect.Ptr:
				switch value := field.Value().(type) {
				case *bool:
					if value != nil {
						cmd.Flags().Set(key, fmt.Sprintf("%v", *value))
					}
				case *int:
					if value != nil {
						cmd.Flags().Set(key, fmt.Sprintf("%d", *value))
					}
				default:
					return fmt.Errorf("migrate-confluence: found unrecognised field: %+v", field)
				}

			case reflect.String:
				s, ok := field.Value().(string)
				if !ok {
					return fmt.Errorf("migrate-confluence: found unrecognised field: %+v", field)
				}
				if s != "" {
					cmd.Flags().Set(key, s)
				}

			default:
				return fmt.Errorf("migrate-confluence: found unrecognised field: %+v", field)
			}
		}
	}

	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("migrate-confluence: execution error: %w", err)
	}

	return nil
}
