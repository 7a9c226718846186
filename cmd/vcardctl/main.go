package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/danmuck/vcardcodec/internal/config"
	"github.com/danmuck/vcardcodec/internal/contact"
	"github.com/danmuck/vcardcodec/internal/logging"
	"github.com/danmuck/vcardcodec/internal/parser"
	"github.com/danmuck/vcardcodec/internal/versit"
	"github.com/rs/zerolog/log"
)

const usage = `usage: vcardctl [-config path] <command> [file|-]

commands:
  split      print each record of a concatenated stream
  inspect    decode records and list contact fields
  roundtrip  decode records and encode them again
`

var errUsage = errors.New("invalid usage")

type options struct {
	configPath string
	command    string
	input      string
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.DefaultCodecConfig()
	if opts.configPath != "" {
		cfg, err = config.LoadCodecConfig(opts.configPath)
		if err != nil {
			fatalf("%v", err)
		}
	}
	logCfg := cfg.Log
	logging.ApplyEnvOverrides(&logCfg)
	logging.Apply(logCfg)

	if err := run(cfg, opts, os.Stdin, os.Stdout); err != nil {
		log.Error().Err(err).Str("command", opts.command).Msg("vcardctl failed")
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("vcardctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.configPath, "config", "", "path to vcardctl TOML config")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	rest := fs.Args()
	if len(rest) == 0 || len(rest) > 2 {
		return options{}, errUsage
	}
	opts.command = rest[0]
	opts.input = "-"
	if len(rest) == 2 {
		opts.input = rest[1]
	}
	return opts, nil
}

func run(cfg config.CodecConfig, opts options, stdin io.Reader, stdout io.Writer) error {
	data, err := readInput(opts.input, stdin)
	if err != nil {
		return err
	}

	switch opts.command {
	case "split":
		return runSplit(data, stdout)
	case "inspect":
		return runInspect(cfg, data, stdout)
	case "roundtrip":
		return runRoundTrip(cfg, data, stdout)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, opts.command)
	}
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

func runSplit(data []byte, stdout io.Writer) error {
	chunks := versit.Split(data)
	for _, chunk := range chunks {
		if _, err := stdout.Write(chunk); err != nil {
			return err
		}
	}
	log.Info().Int("records", len(chunks)).Msg("split complete")
	return nil
}

func runInspect(cfg config.CodecConfig, data []byte, stdout io.Writer) error {
	p := parser.New(cfg.ParserConfig())
	defer p.Close()

	contacts, err := p.DecodeSync([]string{string(data)})
	if err != nil {
		return err
	}
	actions := contact.DefaultActions()
	for i, c := range contacts {
		fmt.Fprintf(stdout, "contact %d (%d fields)\n", i, len(c.Fields))
		preferred := c.PreferredFor(actions, contact.KindPhoneNumber)
		for _, f := range c.Fields {
			fmt.Fprintf(stdout, "  %s", describeField(f))
			if f == preferred {
				fmt.Fprint(stdout, " preferred")
			}
			fmt.Fprintln(stdout)
		}
	}
	return nil
}

func describeField(f *contact.Field) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-14s %+v", f.Kind(), f.Value)
	if f.DetailURI != "" {
		fmt.Fprintf(&b, " uri=%s", f.DetailURI)
	}
	if f.Access != 0 {
		fmt.Fprintf(&b, " access=%s", f.Access)
	}
	return b.String()
}

func runRoundTrip(cfg config.CodecConfig, data []byte, stdout io.Writer) error {
	p := parser.New(cfg.ParserConfig())
	defer p.Close()

	contacts, err := p.DecodeSync([]string{string(data)})
	if err != nil {
		return err
	}
	records, err := p.EncodeSync(contacts)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if _, err := io.WriteString(stdout, rec); err != nil {
			return err
		}
	}
	log.Info().Int("contacts", len(contacts)).Int("records", len(records)).Msg("roundtrip complete")
	return nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "vcardctl: "+format+"\n", args...)
	os.Exit(1)
}
