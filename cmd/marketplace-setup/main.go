package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"marketplacesetup/config"
	"marketplacesetup/db"
	"marketplacesetup/logging"
	"marketplacesetup/setup"
)

const (
	envPrefix         = "MARKETPLACE_SETUP"
	defaultScriptsDir = "scripts"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd(stdin, stdout)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(stdin io.Reader, stdout io.Writer) *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:           "marketplace-setup",
		Short:         "Set up the Real Marketplace database schema and sample data",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(v, stdout)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			w := setup.New(setup.Options{
				Env:        v.GetString("env"),
				EnvDir:     v.GetString("env-dir"),
				ScriptsDir: v.GetString("scripts-dir"),
				Cleanup:    v.GetBool("cleanup"),
				VerifyOnly: v.GetBool("verify-only"),
				In:         stdin,
				Out:        stdout,
			}, provisionerFactory(v, log), log)

			outcome, err := w.Run(cmd.Context())
			if err != nil {
				return err
			}
			log.Debugf("setup finished: %s", outcome)
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("env", config.DefaultEnvironment, "Environment to use")
	flags.String("env-dir", ".", "Directory holding the .env files")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	flags.String("log-file", "", "Also write logs to this file, rotated")
	rootCmd.Flags().String("scripts-dir", defaultScriptsDir, "Directory holding the SQL scripts")
	rootCmd.Flags().Bool("cleanup", false, "Clean up existing sample data before creating new data")
	rootCmd.Flags().Bool("verify-only", false, "Only verify the database schema without creating sample data")

	_ = v.BindPFlags(rootCmd.PersistentFlags())
	_ = v.BindPFlags(rootCmd.Flags())
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv() // MARKETPLACE_SETUP_ENV, MARKETPLACE_SETUP_VERIFY_ONLY, ...

	rootCmd.AddCommand(newStatusCmd(v, stdout))
	return rootCmd
}

func newStatusCmd(v *viper.Viper, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report sample data counts and test accounts without changing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(v, stdout)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			w := setup.New(setup.Options{
				Env:    v.GetString("env"),
				EnvDir: v.GetString("env-dir"),
				Out:    stdout,
			}, provisionerFactory(v, log), log)
			_, err = w.Status(cmd.Context())
			return err
		},
	}
}

func newLogger(v *viper.Viper, stdout io.Writer) (*zap.SugaredLogger, error) {
	l, err := logging.New(logging.Options{
		Level: v.GetString("log-level"),
		File:  v.GetString("log-file"),
		Out:   stdout,
	})
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

func provisionerFactory(v *viper.Viper, log *zap.SugaredLogger) setup.ProvisionerFactory {
	return func(conn config.Connection) db.Provisioner {
		p := db.NewSQLProvisioner(conn, log)
		if v.GetString("log-level") == "debug" {
			p.WithSQLLogging()
		}
		return p
	}
}
