// Command phpdecode reads a PHP serialize() blob and prints its JSON
// rendering (or, with --debug, a pretty-printed dump of the value tree).
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/k0kubun/pp/v3"

	"github.com/sokojh/phpserialize-go"
	"github.com/sokojh/phpserialize-go/jsonenc"
)

type cliOptions struct {
	File         string `short:"f" long:"file" description:"Read the serialized blob from a file, rather than stdin" value-name:"path"`
	Config       string `short:"c" long:"config" description:"Path to a YAML config file with default options" value-name:"path"`
	Strict       bool   `long:"strict" description:"Require declared string lengths to match exactly (disables §4.5 recovery)"`
	NoUnescape   bool   `long:"no-unescape" description:"Skip the DB-escape preprocessor"`
	MaxDepth     int    `long:"max-depth" description:"Container nesting bound" default:"512"`
	ErrorPolicy  string `long:"error-policy" description:"Non-UTF-8 string policy: replace, bytes, or strict" default:"replace" choice:"replace" choice:"bytes" choice:"strict"`
	Debug        bool   `long:"debug" description:"Pretty-print the decoded value tree instead of emitting JSON"`
	Version      bool   `long:"version" description:"Show version and exit"`
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	var opts cliOptions
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[options]"
	if _, err := parser.ParseArgs(args); err != nil {
		return err
	}

	if opts.Version {
		fmt.Fprintln(stdout, phpserialize.Version)
		return nil
	}

	fc, err := loadFileConfig(opts.Config)
	if err != nil {
		return fmt.Errorf("phpdecode: reading config: %w", err)
	}

	blob, err := readInput(opts.File, stdin)
	if err != nil {
		return fmt.Errorf("phpdecode: reading input: %w", err)
	}

	decodeOpts := buildOptions(opts, fc)

	res, err := phpserialize.Decode(blob, decodeOpts...)
	if err != nil {
		return fmt.Errorf("phpdecode: decode failed: %w", err)
	}

	if opts.Debug {
		pp.Fprintln(stdout, res.Value)
		return nil
	}

	errPolicy := resolveErrorPolicy(opts.ErrorPolicy, fc.ErrorPolicy)
	out, err := phpserialize.DecodeToJSON(blob, append(decodeOpts, phpserialize.WithJSONErrorPolicy(errPolicy))...)
	if err != nil {
		return fmt.Errorf("phpdecode: json encode failed: %w", err)
	}
	fmt.Fprintln(stdout, string(out))
	return nil
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func buildOptions(opts cliOptions, fc fileConfig) []phpserialize.Option {
	strict := opts.Strict || fc.Strict
	autoUnescape := !opts.NoUnescape
	if fc.AutoUnescape != nil {
		autoUnescape = autoUnescape && *fc.AutoUnescape
	}
	maxDepth := opts.MaxDepth
	// The file value applies only while --max-depth is at its default of 512.
	if fc.MaxDepth > 0 && opts.MaxDepth == 512 {
		maxDepth = fc.MaxDepth
	}

	return []phpserialize.Option{
		phpserialize.WithStrict(strict),
		phpserialize.WithAutoUnescape(autoUnescape),
		phpserialize.WithMaxDepth(maxDepth),
	}
}

func resolveErrorPolicy(flagValue, fileValue string) jsonenc.ErrorPolicy {
	v := flagValue
	if flagValue == "replace" && fileValue != "" {
		v = fileValue
	}
	switch v {
	case "bytes":
		return jsonenc.RawBytes
	case "strict":
		return jsonenc.StrictUTF8
	default:
		return jsonenc.ReplaceInvalid
	}
}
