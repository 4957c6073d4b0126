/*
Copyright © 2017 the InMAP authors.
This file is part of InMAP.

InMAP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

InMAP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with InMAP.  If not, see <http://www.gnu.org/licenses/>.
*/

package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Version is the build version, set here rather than by a data-loading
// layer since this command has no other source of it.
const Version = "0.1.0"

// Cfg holds the command tree and the viper instance backing its
// configuration, mirroring the root command's Cfg wrapper this CLI is
// adapted from.
type Cfg struct {
	*viper.Viper

	Root, versionCmd, runCmd *cobra.Command
}

var options = []struct {
	name, usage string
	defaultVal  interface{}
}{
	{"Seed", "base PRNG seed, combined with each history id", uint64(1)},
	{"NParticles", "particles per generation", 10000},
	{"NGenerations", "number of generations to run, including skipped ones", 100},
	{"NSkip", "inactive generations skipped before accumulating k-effective", 10},
	{"SurvivalBiasing", "use implicit capture instead of analog absorption", true},
	{"WeightCutoff", "Russian roulette weight threshold", 0.25},
	{"WeightSurvive", "weight assigned to particles that survive roulette", 1.0},
	{"Verbosity", "log level: panic, fatal, error, warn, info, debug, trace", "info"},
	{"Material", "path to a TOML material manifest (not read by run, which uses its built-in demo material)", "materials.toml"},
}

// InitializeConfig builds the cobra command tree and binds every flag
// in options to both pflag and viper, the same two-step registration
// the worker-pool CLI this is adapted from uses.
func InitializeConfig() *Cfg {
	cfg := &Cfg{Viper: viper.New()}

	cfg.Root = &cobra.Command{
		Use:   "neutroncore",
		Short: "A continuous-energy Monte Carlo neutron transport core.",
		Long: `neutroncore transports neutron histories through a user-supplied
geometry and tally, accumulating fission sites generation over generation
to estimate the k-eigenvalue of a fissile system.

Configuration can be changed with command-line flags, a config file
(--config), or NEUTRONCORE_* environment variables.`,
		DisableAutoGenTag: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return setConfig(cfg)
		},
	}

	cfg.versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("neutroncore v%s\n", Version)
		},
		DisableAutoGenTag: true,
	}

	cfg.runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run a criticality calculation.",
		Long:  "run transports NParticles histories for NGenerations generations and reports the converged k-effective estimate.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCriticality(cfg)
		},
		DisableAutoGenTag: true,
	}

	for _, o := range options {
		addFlag(cfg.runCmd.Flags(), o.name, o.usage, o.defaultVal)
	}
	cfg.Root.PersistentFlags().String("config", "", "path to a configuration file")

	cfg.Root.AddCommand(cfg.versionCmd, cfg.runCmd)
	return cfg
}

// addFlag registers one option on both the pflag.FlagSet (for the CLI)
// and, via BindPFlag at setConfig time, viper (for file/env overrides).
func addFlag(fs *pflag.FlagSet, name, usage string, defaultVal interface{}) {
	switch v := defaultVal.(type) {
	case string:
		fs.String(name, v, usage)
	case int:
		fs.Int(name, v, usage)
	case uint64:
		fs.Uint64(name, v, usage)
	case float64:
		fs.Float64(name, v, usage)
	case bool:
		fs.Bool(name, v, usage)
	default:
		panic(fmt.Sprintf("neutroncore: unsupported flag default type %T for %s", defaultVal, name))
	}
}

// setConfig loads an optional config file and binds every flag on the
// invoked command to viper, so GetX calls below see flags,
// NEUTRONCORE_* environment variables, and config-file values, in that
// precedence order.
func setConfig(cfg *Cfg) error {
	if path, _ := cfg.Root.PersistentFlags().GetString("config"); path != "" {
		cfg.SetConfigFile(path)
		if err := cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("neutroncore: reading config file: %w", err)
		}
	}

	cfg.SetEnvPrefix("NEUTRONCORE")
	cfg.AutomaticEnv()

	for _, o := range options {
		if err := cfg.BindPFlag(o.name, cfg.runCmd.Flags().Lookup(o.name)); err != nil {
			return fmt.Errorf("neutroncore: binding flag %s: %w", o.name, err)
		}
	}

	level, err := logrus.ParseLevel(cfg.GetString("Verbosity"))
	if err != nil {
		return fmt.Errorf("neutroncore: invalid Verbosity: %w", err)
	}
	logrus.SetLevel(level)
	return nil
}
