// hipack - HiPack codec CLI tool
//
// Usage:
//
//	hipack from-json [--pretty] [file]  Convert JSON to HiPack
//	hipack to-json [file]               Convert HiPack to JSON
//	hipack fmt [--compact] [file]       Reformat HiPack text
//	hipack version                      Print version info
//
// If no file is given, reads from stdin. Gzip-compressed input is detected
// by its magic bytes and decompressed transparently.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	flag "github.com/spf13/pflag"

	"github.com/hipack/hipack-go/hipack"
)

const libVersion = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "from-json":
		fs := flag.NewFlagSet("from-json", flag.ExitOnError)
		pretty := fs.BoolP("pretty", "p", false, "indented output")
		if err := fs.Parse(args); err != nil {
			fatal("parse flags: %v", err)
		}
		cmdFromJSON(openInput(fs.Args()), *pretty)

	case "to-json":
		fs := flag.NewFlagSet("to-json", flag.ExitOnError)
		if err := fs.Parse(args); err != nil {
			fatal("parse flags: %v", err)
		}
		cmdToJSON(openInput(fs.Args()))

	case "fmt":
		fs := flag.NewFlagSet("fmt", flag.ExitOnError)
		compact := fs.BoolP("compact", "c", false, "single-line output")
		if err := fs.Parse(args); err != nil {
			fatal("parse flags: %v", err)
		}
		cmdFmt(openInput(fs.Args()), !*compact)

	case "version", "-v", "--version":
		fmt.Printf("hipack %s\n", libVersion)

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `hipack - HiPack codec CLI tool

Usage:
  hipack from-json [--pretty] [file]  Convert JSON to HiPack
  hipack to-json [file]               Convert HiPack to JSON
  hipack fmt [--compact] [file]       Reformat HiPack text
  hipack version                      Print version info

If no file is given, reads from stdin. Gzip-compressed input (.gz or piped)
is decompressed transparently.

Examples:
  echo '{"b":1,"a":2.5}' | hipack from-json
  # Output: {b:1,a:2.5}

  echo '{"b":1,"a":2.5}' | hipack from-json --pretty
  # Output:
  # {
  #   b: 1
  #   a: 2.5
  # }

  hipack to-json config.hipack > config.json
  hipack fmt --compact config.hipack
`)
}

// cmdFromJSON: JSON -> HiPack
func cmdFromJSON(r io.Reader, pretty bool) {
	data, err := io.ReadAll(r)
	if err != nil {
		fatal("read input: %v", err)
	}

	v, err := hipack.FromJSON(data)
	if err != nil {
		fatal("%v", err)
	}
	writeHiPack(v, pretty)
}

// cmdToJSON: HiPack -> JSON
func cmdToJSON(r io.Reader) {
	data, err := io.ReadAll(r)
	if err != nil {
		fatal("read input: %v", err)
	}

	v, err := hipack.Unmarshal(data)
	if err != nil {
		fatal("%v", err)
	}
	out, err := hipack.ToJSON(v)
	if err != nil {
		fatal("%v", err)
	}
	os.Stdout.Write(out)
	fmt.Println()
}

// cmdFmt: HiPack -> HiPack (reformat)
func cmdFmt(r io.Reader, pretty bool) {
	data, err := io.ReadAll(r)
	if err != nil {
		fatal("read input: %v", err)
	}

	v, err := hipack.Unmarshal(data)
	if err != nil {
		fatal("%v", err)
	}
	writeHiPack(v, pretty)
}

func writeHiPack(v *hipack.Value, pretty bool) {
	var out []byte
	var err error
	if pretty {
		out, err = hipack.MarshalPretty(v)
	} else {
		out, err = hipack.Marshal(v)
	}
	if err != nil {
		fatal("%v", err)
	}
	os.Stdout.Write(out)
	fmt.Println()
}

// openInput resolves the positional file argument (or stdin) and unwraps
// gzip when the stream starts with the gzip magic bytes.
func openInput(args []string) io.Reader {
	var input io.Reader = os.Stdin
	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			fatal("open file: %v", err)
		}
		input = f
	}

	br := bufio.NewReader(input)
	magic, err := br.Peek(2)
	if err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		zr, err := gzip.NewReader(br)
		if err != nil {
			fatal("gzip: %v", err)
		}
		return zr
	}
	return br
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "hipack: "+format+"\n", args...)
	os.Exit(1)
}
