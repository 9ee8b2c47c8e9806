// Command mockcql is an interactive shell over an in-memory engine instance.
// Handy for poking at statements the engine accepts without writing a test.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mockcql/mockcql"
)

var (
	configPath string
	keyspace   string
	strict     bool
)

func bindFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&configPath, "config", "c", "", "path to a yaml config file")
	fs.StringVarP(&keyspace, "keyspace", "k", "", "keyspace to start the session in")
	fs.BoolVar(&strict, "strict-update", false, "disable the upsert behavior of UPDATE")
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "mockcql",
		Short:         "Interactive shell for the in-memory CQL engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runShell,
	}
	bindFlags(rootCmd.PersistentFlags())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runShell(cmd *cobra.Command, args []string) error {
	cfg := mockcql.DefaultConfig()
	if configPath != "" {
		loaded, err := mockcql.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if strict {
		cfg.StrictUpdate = true
	}

	mock := mockcql.New(cfg)
	defer func() { _ = mock.Close() }()

	if keyspace != "" {
		if err := mock.EnsureKeyspace(keyspace); err != nil {
			return err
		}
	}
	session, err := mock.Connect(keyspace)
	if err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "mockcql> ",
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize shell: %w", err)
	}
	defer func() { _ = rl.Close() }()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "mockcql shell, all state is in memory")
	fmt.Fprintln(out, "Type .help for commands, .quit to exit")
	fmt.Fprintln(out)

	var buf strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			buf.Reset()
			rl.SetPrompt("mockcql> ")
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if quit := handleDotCommand(out, mock, session, line); quit {
				return nil
			}
			continue
		}

		// Accumulate until the closing semicolon.
		buf.WriteString(line)
		if !strings.HasSuffix(line, ";") {
			buf.WriteString(" ")
			rl.SetPrompt("    ...> ")
			continue
		}
		rl.SetPrompt("mockcql> ")

		cql := buf.String()
		buf.Reset()

		res, err := session.Execute(cql)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			continue
		}
		renderResult(out, res)
		fmt.Fprintln(out)
	}
}

// handleDotCommand runs a shell command and reports whether to exit.
func handleDotCommand(out io.Writer, mock *mockcql.Mock, session *mockcql.Session, line string) bool {
	parts := strings.Fields(line)
	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit":
		return true

	case ".help":
		fmt.Fprintln(out, "Commands:")
		fmt.Fprintln(out, "  .keyspaces            list keyspaces")
		fmt.Fprintln(out, "  .tables [keyspace]    list tables")
		fmt.Fprintln(out, "  .rows <ks> <table>    dump a table's rows")
		fmt.Fprintln(out, "  .quit                 exit")
		fmt.Fprintln(out, "Statements end with ';' and may span lines.")

	case ".keyspaces":
		for _, name := range mock.Keyspaces() {
			fmt.Fprintln(out, name)
		}

	case ".tables":
		ks := session.Keyspace()
		if len(parts) > 1 {
			ks = parts[1]
		}
		if ks == "" {
			fmt.Fprintln(out, "no keyspace selected, use .tables <keyspace>")
			return false
		}
		tables, err := mock.Tables(ks)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return false
		}
		for _, name := range tables {
			fmt.Fprintln(out, name)
		}

	case ".rows":
		if len(parts) != 3 {
			fmt.Fprintln(out, "usage: .rows <keyspace> <table>")
			return false
		}
		rows, err := mock.TableRows(parts[1], parts[2])
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return false
		}
		renderRowMaps(out, rows)

	default:
		fmt.Fprintf(out, "unknown command %s, try .help\n", parts[0])
	}
	return false
}
