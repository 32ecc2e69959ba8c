package cmd

import (
	"context"
	"io"
	"log"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/cube2222/ocitdo/catalog"
	"github.com/cube2222/ocitdo/config"
	"github.com/cube2222/ocitdo/logs"
	"github.com/cube2222/ocitdo/ocimem"
	"github.com/cube2222/ocitdo/output"
	"github.com/cube2222/ocitdo/output/json"
	"github.com/cube2222/ocitdo/output/table"
	"github.com/cube2222/ocitdo/registry"
)

var fixturePath string
var configPath string
var format string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ocitdo",
	Short: "Describe object types and decode their instances.",
	Long: `ocitdo describes object and opaque types of an in-memory client library
loaded from a YAML fixture, and decodes fixture instances into native values.`,
	Example: `ocitdo --fixture testdata/fixture.yaml types
ocitdo --fixture testdata/fixture.yaml describe SCOTT.SEGMENT_T
ocitdo --fixture testdata/fixture.yaml decode diagonal --format json`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute(ctx context.Context) {
	cobra.CheckErr(rootCmd.ExecuteContext(ctx))
}

func init() {
	rootCmd.PersistentFlags().StringVar(&fixturePath, "fixture", "", "Path to the YAML fixture with types and instances.")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the YAML configuration file.")
	rootCmd.PersistentFlags().StringVar(&format, "format", "", "Output format: text, table, json or spew.")
	rootCmd.MarkPersistentFlagRequired("fixture")

	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(typesCmd)
}

// environment is the state every command works with.
type environment struct {
	config  *config.Config
	fixture *ocimem.Fixture
	library *ocimem.Library
	session *ocimem.Session
	mapping *registry.Mapping
	catalog *catalog.Catalog
}

func setup() (_ *environment, outErr error) {
	cfg := &config.Config{Options: map[string]interface{}{}}
	if configPath != "" {
		var err error
		cfg, err = config.ReadConfig(configPath)
		if err != nil {
			return nil, errors.Wrap(err, "couldn't read config")
		}
	}

	if err := logs.InitializeFileLogger(cfg.LogFile); err != nil {
		return nil, errors.Wrap(err, "couldn't initialize logger")
	}

	fixture, err := ocimem.ReadFixture(fixturePath)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't read fixture")
	}
	lib, err := ocimem.NewLibraryFromFixture(fixture)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't load fixture types")
	}
	if cfg.XML {
		lib.XML = true
	}

	mapping, err := config.BuildMapping(cfg, map[string]registry.Class{
		registry.Record.Name(): registry.Record,
	})
	if err != nil {
		return nil, errors.Wrap(err, "couldn't build type mapping")
	}

	sess := lib.Connect()
	log.Printf("connected session %s", sess.ID())

	env := &environment{
		config:  cfg,
		fixture: fixture,
		library: lib,
		session: sess,
		mapping: mapping,
		catalog: catalog.New(sess, mapping),
	}
	defer func() {
		if outErr != nil {
			env.Close()
		}
	}()

	preload, err := config.GetStringList(cfg.Options, "catalog.preload", config.WithDefault([]string{}))
	if err != nil {
		return nil, errors.Wrap(err, "couldn't get catalog preload option")
	}
	for _, name := range preload {
		if _, err := env.catalog.DescribeQualified(name); err != nil {
			return nil, errors.Wrapf(err, "couldn't preload type %s", name)
		}
	}

	return env, nil
}

func (env *environment) Close() error {
	err := env.catalog.Close()
	logs.CloseLogger()
	return err
}

// formatter picks the output format from the flag, then the output.format option, then the command default.
// The text format has no formatter.
func (env *environment) formatter(w io.Writer, defaultFormat string) (output.Format, error) {
	name := format
	if name == "" {
		var err error
		name, err = config.GetString(env.config.Options, "output.format", config.WithDefault(defaultFormat))
		if err != nil {
			return nil, errors.Wrap(err, "couldn't get output format option")
		}
	}

	switch name {
	case "text":
		return nil, nil
	case "table":
		width, err := config.GetInt(env.config.Options, "table.maxColWidth", config.WithDefault(40))
		if err != nil {
			return nil, errors.Wrap(err, "couldn't get table column width option")
		}
		return table.NewFormatter(w, width), nil
	case "json":
		return json.NewFormatter(w), nil
	case "spew":
		return output.NewSpewFormatter(w), nil
	}
	return nil, errors.Errorf("unknown output format %s", name)
}
