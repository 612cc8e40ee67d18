package main

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// appFs is where log files and reports are written
var appFs = afero.NewOsFs()

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lab",
		Short: "Lab runs reinforcement learning experiments with tabular agents",
	}
	cmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	cmd.PersistentFlags().String("logfile", "", "Set logfile")
	cmd.PersistentFlags().Bool("quiet", false, "Do not output to stdout")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	_ = viper.BindPFlag("debug", cmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("logfile", cmd.PersistentFlags().Lookup("logfile"))
	_ = viper.BindPFlag("quiet", cmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("no-color", cmd.PersistentFlags().Lookup("no-color"))
	return cmd
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = NewRootCmd()
