package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var outputFormats = []string{"text", "table", "json"}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Reads global flags from Viper and adjusts the environment accordingly.
func processGlobalFlags(cmd *cobra.Command, v *viper.Viper) {
	if v.GetBool("no-color") || !isTerminal(cmd.OutOrStdout()) {
		color.NoColor = true
	}
}

func newLogger(cmd *cobra.Command, v *viper.Viper) zerolog.Logger {
	level := zerolog.WarnLevel
	if v.GetBool("verbose") {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{
		Out:        cmd.ErrOrStderr(),
		NoColor:    color.NoColor,
		TimeFormat: "15:04:05",
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func getOutputJSON(result any) ([]byte, error) {
	if color.NoColor {
		return json.MarshalIndent(result, "", "  ")
	}
	return prettyjson.Marshal(result)
}
