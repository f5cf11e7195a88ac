package main

import (
	"flag"
	"io"
)

// modeArgs captures flags shared by the terminal, window and ping entrypoints.
type modeArgs struct {
	cfgPath         string
	envPath         string
	modelOverride   string
	language        string
	canned          bool
	debug           bool
	configOverrides stringSlice
}

func newModeFlagSet(name string, output io.Writer) (*flag.FlagSet, *modeArgs) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)
	args := &modeArgs{}

	fs.StringVar(&args.cfgPath, "config", "", "Path to config file (default ~/.helios/config.toml)")
	fs.StringVar(&args.envPath, "env-file", "", "Path to a .env file (default ./.env)")
	fs.StringVar(&args.modelOverride, "model", "", "Model override")
	fs.StringVar(&args.modelOverride, "m", "", "Alias for --model")
	fs.StringVar(&args.language, "lang", "", "Interface language (en|zh)")
	fs.BoolVar(&args.canned, "canned", false, "Answer greetings and small talk locally before asking the model")
	fs.BoolVar(&args.debug, "debug", false, "Write debug-level logs")
	fs.Var(&args.configOverrides, "c", "Override config value key=value (repeatable)")

	return fs, args
}

// overrides folds the dedicated flags into key=value overrides so they are
// applied after the config file and environment, in flag order.
func (a *modeArgs) overrides(root rootArgs) []string {
	all := prependOverrides(root.overrides, []string(a.configOverrides))
	if a.modelOverride != "" {
		all = append(all, "model="+a.modelOverride)
	}
	if a.language != "" {
		all = append(all, "language="+a.language)
	}
	if a.canned {
		all = append(all, "canned=true")
	}
	return all
}
