package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"go.dhalldata.dev/pkg"
)

const (
	historyFile = ".dhall_history"
	promptMain  = "dhall> "
	promptCont  = "...... "
)

var banner = "Dhall literal REPL\nEach literal is decoded and printed back with its type. Ctrl+C cancels input, Ctrl+D exits. Type :quit to exit."

func red(s string) string   { return "\x1b[31m" + s + "\x1b[0m" }
func green(s string) string { return "\x1b[32m" + s + "\x1b[0m" }
func blue(s string) string  { return "\x1b[94m" + s + "\x1b[0m" }

func cmdRepl(_ []string) int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		src, ok := readLiteral(ln)
		if !ok {
			fmt.Println()
			break
		}

		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit":
				return 0
			default:
				fmt.Println("unknown command. Type :quit to exit.")
			}
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))

		v, err := dhall.DecodeValue(src)
		if err != nil {
			printError(err)
			continue
		}

		out, err := dhall.EncodeValue(v)
		if err != nil {
			printError(err)
			continue
		}

		fmt.Println(blue(out), green(": "+v.Type().String()))
	}

	return 0
}

// readLiteral keeps prompting while the input so far only fails because it
// ends too early, such as an open bracket or text literal.
func readLiteral(ln *liner.State) (string, bool) {
	var b strings.Builder

	for {
		prompt := promptMain
		if b.Len() != 0 {
			prompt = promptCont
		}

		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if _, perr := dhall.Parse(src); perr != nil && dhall.IsIncomplete(perr) {
			continue
		}

		return src, true
	}
}
