package main

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/kbukum/audioscript/config"
	"github.com/kbukum/audioscript/transcription"
)

type cliFlags struct {
	set *pflag.FlagSet

	configFile  string
	envFile     string
	jsonOutput  bool
	showVersion bool

	language         string
	detectLanguage   bool
	multiLanguage    bool
	autoPunctuation  bool
	punctuationStyle string
	toneAnalysis     bool
}

func newFlags(stderr io.Writer) *cliFlags {
	f := &cliFlags{set: pflag.NewFlagSet(serviceName, pflag.ContinueOnError)}
	fs := f.set
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [flags] <audio-file>\n\nFlags:\n", serviceName)
		fs.PrintDefaults()
	}

	defaults := transcription.DefaultOptions()
	fs.StringVarP(&f.configFile, "config", "c", "", "config file (default: searched in standard locations)")
	fs.StringVar(&f.envFile, "env-file", "", ".env file to load")
	fs.BoolVar(&f.jsonOutput, "json", false, "print views and errors as JSON lines")
	fs.BoolVar(&f.showVersion, "version", false, "print version and exit")

	fs.String("endpoint", "", "transcription API base URL")
	fs.String("token", "", "bearer token for the transcription API")
	fs.Duration("interval", 0, "delay between status fetches")
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	fs.Bool("telemetry", false, "export traces and metrics over OTLP")

	fs.StringVarP(&f.language, "language", "l", string(defaults.Language), "spoken language (auto, zh, en, ja, ko)")
	fs.BoolVar(&f.detectLanguage, "detect-language", defaults.DetectLanguage, "detect the spoken language")
	fs.BoolVar(&f.multiLanguage, "multi-language", defaults.MultiLanguage, "allow several languages in one file (needs --detect-language)")
	fs.BoolVar(&f.autoPunctuation, "punctuation", defaults.AutoPunctuation, "insert punctuation")
	fs.StringVar(&f.punctuationStyle, "punctuation-style", string(defaults.PunctuationStyle), "punctuation style (auto, formal, casual)")
	fs.BoolVar(&f.toneAnalysis, "tone", defaults.ToneAnalysis, "analyze the tone of each segment")
	return f
}

func (f *cliFlags) parse(args []string) error {
	return f.set.Parse(args)
}

// loaderOptions binds the config-backed flags to their keys.
func (f *cliFlags) loaderOptions() []config.LoaderOption {
	opts := []config.LoaderOption{
		config.WithDefaults(map[string]any{"name": serviceName}),
		config.WithFlag("api.endpoint", f.set.Lookup("endpoint")),
		config.WithFlag("api.token", f.set.Lookup("token")),
		config.WithFlag("poll.interval", f.set.Lookup("interval")),
		config.WithFlag("logging.level", f.set.Lookup("log-level")),
		config.WithFlag("telemetry.enabled", f.set.Lookup("telemetry")),
	}
	if f.configFile != "" {
		opts = append(opts, config.WithConfigFile(f.configFile))
	}
	if f.envFile != "" {
		opts = append(opts, config.WithEnvFile(f.envFile))
	}
	return opts
}

// options builds the transcription options through a Form so dependent
// settings follow the same rules as interactive editing.
func (f *cliFlags) options() (transcription.Options, error) {
	lang, err := transcription.ParseLanguage(f.language)
	if err != nil {
		return transcription.Options{}, err
	}
	style, err := transcription.ParsePunctuationStyle(f.punctuationStyle)
	if err != nil {
		return transcription.Options{}, err
	}

	form := transcription.NewForm()
	form.SetLanguage(lang)
	form.SetDetectLanguage(f.detectLanguage)
	form.SetMultiLanguage(f.multiLanguage)
	form.SetAutoPunctuation(f.autoPunctuation)
	form.SetPunctuationStyle(style)
	form.SetToneAnalysis(f.toneAnalysis)
	return form.Options(), nil
}
