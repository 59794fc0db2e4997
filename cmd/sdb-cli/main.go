// Command sdb-cli is an interactive shell over a single sdb database file.
//
// Usage:
//
//	sdb-cli [-scheme none|rle|lz77|snappy] [-log-level info] <path>
//
// The same scheme must be used on every open of the same file.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/bsm/sdb"
	"github.com/kballard/go-shellquote"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "sdb-cli: %v\n", err)
		os.Exit(1)
	}
}

func mainImpl() error {
	schemeName := flag.String("scheme", "none", "Compression scheme (none, rle, lz77, snappy)")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()
	if flag.NArg() != 1 {
		return errors.New("usage: sdb-cli [-scheme none|rle|lz77|snappy] <path>")
	}

	ll := &slog.LevelVar{}
	if err := ll.UnmarshalText([]byte(*logLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", *logLevel, err)
	}
	logger := slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      ll,
		TimeFormat: "15:04:05",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}))
	slog.SetDefault(logger)

	scheme, err := sdb.ParseCompression(*schemeName)
	if err != nil {
		return err
	}

	path := flag.Arg(0)
	db, err := sdb.Open(path, scheme)
	if err != nil {
		if !errors.Is(err, sdb.ErrCorruptData) {
			return err
		}
		slog.Warn("database file could not be decoded, starting empty", "path", path, "scheme", scheme)
	}
	defer db.Close()

	info := db.Info()
	fmt.Printf("sdb %s: %s (scheme %s)\n", info.Version, info.Path, info.Scheme)
	fmt.Println("Type commands. 'help' for information or 'exit' to quit.")

	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("> ")

		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		args, err := shellquote.Split(line)
		if err != nil {
			fmt.Println("parse error:", err)
			continue
		}
		if len(args) == 0 {
			continue
		}

		if done := runCommand(db, args); done {
			return nil
		}
	}
}

func runCommand(db *sdb.DB, args []string) (done bool) {
	switch cmd := strings.ToLower(args[0]); cmd {
	case "exit", "quit":
		return true

	case "help":
		fmt.Println(strings.TrimSpace(helpString))

	case "create":
		if !expectArgs(args, 2, "create <table>") {
			return false
		}
		if err := db.CreateTable(args[1]); err != nil {
			slog.Error("create failed", "table", args[1], "err", err)
			return false
		}
		fmt.Println("ok")

	case "drop":
		if !expectArgs(args, 2, "drop <table>") {
			return false
		}
		if err := db.DestroyTable(args[1]); err != nil {
			slog.Error("drop failed", "table", args[1], "err", err)
			return false
		}
		fmt.Println("ok")

	case "set":
		if !expectArgs(args, 4, "set <table> <key> <value>") {
			return false
		}
		if err := db.Set(args[1], args[2], args[3]); err != nil {
			slog.Error("set failed", "table", args[1], "key", args[2], "err", err)
			return false
		}
		fmt.Println("ok")

	case "get":
		if !expectArgs(args, 3, "get <table> <key>") {
			return false
		}
		value, err := db.Get(args[1], args[2])
		if errors.Is(err, sdb.ErrNotFound) {
			fmt.Println("nil")
			return false
		} else if err != nil {
			slog.Error("get failed", "table", args[1], "key", args[2], "err", err)
			return false
		}
		fmt.Println(value)

	case "tables":
		names := db.Tables()
		if len(names) == 0 {
			fmt.Println("nil")
			return false
		}
		for _, name := range names {
			fmt.Println(name)
		}

	case "keys":
		if !expectArgs(args, 2, "keys <table>") {
			return false
		}
		keys, err := db.Keys(args[1])
		if err != nil {
			slog.Error("keys failed", "table", args[1], "err", err)
			return false
		}
		if len(keys) == 0 {
			fmt.Println("nil")
			return false
		}
		for _, key := range keys {
			fmt.Println(key)
		}

	case "info":
		info := db.Info()
		fmt.Printf("path: %s\nversion: %s\nscheme: %s\n", info.Path, info.Version, info.Scheme)

	default:
		fmt.Println("Invalid Command. 'help' lists the available commands.")
	}
	return false
}

func expectArgs(args []string, n int, usage string) bool {
	if len(args) != n {
		fmt.Println("usage:", usage)
		return false
	}
	return true
}

const helpString = `
Available Commands:

CREATE <table>
  Create a new empty table.
  Response: ok

DROP <table>
  Remove a table and all its entries.
  Response: ok

SET <table> <key> <value>
  Store a value for the given key, overwriting in place if it exists.
  Quote values that contain spaces.
  Response: ok

GET <table> <key>
  Retrieve the value associated with the key.
  Response: value | nil

TABLES
  List all tables in creation order.
  Response: list of tables | nil

KEYS <table>
  List the keys of a table in insertion order.
  Response: list of keys | nil

INFO
  Print path, version and compression scheme.

HELP
  Show this help message.

EXIT
  Quit the shell.
`
