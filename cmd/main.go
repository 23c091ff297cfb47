package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.dhalldata.dev/pkg"
)

const usageText = `usage: dhall <command> [flags] [file]

commands:
  decode   read a Dhall literal, print it as JSON
  encode   read JSON, print it as a Dhall literal
  repl     read Dhall literals interactively
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usageText)
		os.Exit(2)
	}

	switch cmd := os.Args[1]; cmd {
	case "decode":
		os.Exit(cmdDecode(os.Args[2:]))
	case "encode":
		os.Exit(cmdEncode(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "-h", "--help", "help":
		fmt.Print(usageText)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usageText)
		os.Exit(2)
	}
}

func cmdDecode(args []string) int {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	indent := fs.Bool("indent", false, "indent the JSON output")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	in, closeIn, err := openInput(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 1
	}
	defer closeIn()

	v, err := dhall.Load(in)
	if err != nil {
		printError(err)
		return 1
	}

	out, err := marshalJSON(v, *indent)
	if err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 1
	}

	fmt.Println(string(out))
	return 0
}

func cmdEncode(args []string) int {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	sortKeys := fs.Bool("sort-keys", false, "emit record fields sorted by name")
	emptyList := fs.String("empty-list-type", "", "element type for empty lists, e.g. Natural")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	opts := []dhall.EncodeOption{dhall.WithSortKeys(*sortKeys)}
	if *emptyList != "" {
		t, err := dhall.ParseType(*emptyList)
		if err != nil {
			printError(err)
			return 2
		}
		opts = append(opts, dhall.WithEmptyListType(t))
	}

	in, closeIn, err := openInput(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 1
	}
	defer closeIn()

	v, err := readJSON(in)
	if err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 1
	}

	if err := dhall.Dump(os.Stdout, v, opts...); err != nil {
		printError(err)
		return 1
	}

	fmt.Println()
	return 0
}

func openInput(name string) (io.Reader, func(), error) {
	if name == "" || name == "-" {
		return os.Stdin, func() {}, nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, nil, err
	}

	return f, func() { _ = f.Close() }, nil
}

func printError(err error) {
	var e *dhall.Error
	if !errors.As(err, &e) {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return
	}

	switch e.Kind {
	case dhall.LexError, dhall.ParseError, dhall.ReduceError:
		fmt.Fprintln(os.Stderr, red("Invalid Dhall:"), e.Error())
	case dhall.EncodeError:
		fmt.Fprintln(os.Stderr, red("Cannot encode:"), e.Error())
	}
}

// marshalJSON writes records as JSON objects in field order.
func marshalJSON(v any, indent bool) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v); err != nil {
		return nil, err
	}

	if !indent {
		return buf.Bytes(), nil
	}

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v any) error {
	switch e := v.(type) {
	case dhall.Map:
		buf.WriteByte('{')
		for i, entry := range e {
			if i != 0 {
				buf.WriteByte(',')
			}

			key, _ := json.Marshal(entry.Key)
			buf.Write(key)
			buf.WriteByte(':')

			if err := writeJSON(buf, entry.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case []any:
		buf.WriteByte('[')
		for i, item := range e {
			if i != 0 {
				buf.WriteByte(',')
			}

			if err := writeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		b, err := json.Marshal(e)
		if err != nil {
			return err
		}
		buf.Write(b)
	}

	return nil
}

// readJSON decodes one JSON document keeping object key order. Numbers
// without a fraction or exponent become int64.
func readJSON(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	return readJSONValue(dec)
}

func readJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := dhall.Map{}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}

				val, err := readJSONValue(dec)
				if err != nil {
					return nil, err
				}

				m = append(m, dhall.Entry{Key: keyTok.(string), Value: val})
			}
			_, err := dec.Token() // }
			return m, err
		case '[':
			items := []any{}
			for dec.More() {
				val, err := readJSONValue(dec)
				if err != nil {
					return nil, err
				}

				items = append(items, val)
			}
			_, err := dec.Token() // ]
			return items, err
		}
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, nil
		}

		return t.Float64()
	}

	return tok, nil
}
