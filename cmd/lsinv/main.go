package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"lsinv/internal/app"
	"lsinv/internal/config"
	"lsinv/internal/listing"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "ImportCapture", "Diff").
func newApp(operation string) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewApp(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// readInput reads listing text from the given file, or from stdin when no
// file is named. Returns the text and a source label for the snapshot.
func readInput(args []string) (string, string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), "stdin", nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return string(data), args[0], nil
}

// readPassphrase prompts for a passphrase without echoing it.
func readPassphrase(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(pass), nil
}

func printListing(ls *listing.Listing) {
	for _, name := range ls.Folders {
		fmt.Printf("%12s  %s/\n", "-", name)
	}
	for _, f := range ls.Files {
		fmt.Printf("%12d  %s\n", f.SizeBytes, f.Name)
	}
	fmt.Printf("%d file(s), %d folder(s)\n", len(ls.Files), len(ls.Folders))
}

var rootCmd = &cobra.Command{
	Use:   "lsinv",
	Short: "Directory listing inventory tool",
	Long: "lsinv parses captured `ls -lpa` output from remote or sandboxed\n" +
		"shells into sorted file/folder inventories, and manages those\n" +
		"inventories as snapshots: store, diff, and export them.",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		// Generate a new host ID
		hostID := uuid.New().String()

		cfg := config.NewConfig(hostID, defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Host ID: %s\n", hostID)
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Host ID:  %s\n", cfg.HostID)
		fmt.Printf("Base Dir: %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:  %s\n", cfg.LogDir)
		for _, c := range cfg.Captures {
			fmt.Printf("Capture:  %s (%s)\n", c.Name, c.Type)
		}
		return nil
	},
}

// parse command
var parseCmd = &cobra.Command{
	Use:   "parse [FILE]",
	Short: "Parse listing text from a file or stdin",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		save, _ := cmd.Flags().GetBool("save")

		text, source, err := readInput(args)
		if err != nil {
			return err
		}

		if !save {
			ls, err := listing.Parse(text)
			if err != nil {
				return err
			}
			printListing(ls)
			return nil
		}

		a, err := newApp("ImportListing")
		if err != nil {
			return err
		}
		defer a.Close()

		snapshot, ls, err := a.ImportListing(source, text)
		if err != nil {
			return err
		}

		printListing(ls)
		fmt.Printf("Snapshot: %s\n", snapshot.ID)
		return nil
	},
}

// capture command
var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Manage raw listing captures",
}

var capturePutCmd = &cobra.Command{
	Use:   "put KEY [FILE]",
	Short: "Store raw listing text under a key",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("StoreCapture")
		if err != nil {
			return err
		}
		defer a.Close()

		text, _, err := readInput(args[1:])
		if err != nil {
			return err
		}

		key := args[0]
		if err := a.StoreCapture(key, bytes.NewReader([]byte(text)), int64(len(text))); err != nil {
			return err
		}

		fmt.Printf("Stored capture %q (%d bytes)\n", key, len(text))
		return nil
	},
}

var captureListCmd = &cobra.Command{
	Use:   "list [PREFIX]",
	Short: "List stored captures",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ListCaptures")
		if err != nil {
			return err
		}
		defer a.Close()

		prefix := ""
		if len(args) > 0 {
			prefix = args[0]
		}

		keys, err := a.ListCaptures(prefix)
		if err != nil {
			return err
		}

		if len(keys) == 0 {
			fmt.Println("No captures stored.")
			return nil
		}
		for _, key := range keys {
			fmt.Println(key)
		}
		return nil
	},
}

// import command
var importCmd = &cobra.Command{
	Use:   "import KEY",
	Short: "Parse a stored capture into a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ImportCapture")
		if err != nil {
			return err
		}
		defer a.Close()

		snapshot, ls, err := a.ImportCapture(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Imported capture %q: %d file(s), %d folder(s)\n",
			args[0], len(ls.Files), len(ls.Folders))
		fmt.Printf("Snapshot: %s\n", snapshot.ID)
		return nil
	},
}

// show command
var showCmd = &cobra.Command{
	Use:   "show SNAPSHOT",
	Short: "View a stored snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("GetSnapshot")
		if err != nil {
			return err
		}
		defer a.Close()

		snapshot, ls, err := a.Snapshot(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Snapshot %s  source:%s  %s\n\n",
			snapshot.ID, snapshot.Source,
			snapshot.CreatedAt.Format("2006-01-02 15:04:05"))
		printListing(ls)
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View snapshot history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("History")
		if err != nil {
			return err
		}
		defer a.Close()

		snapshots, err := a.History(limit)
		if err != nil {
			return err
		}

		if len(snapshots) == 0 {
			fmt.Println("No snapshots recorded.")
			return nil
		}

		for _, s := range snapshots {
			fmt.Printf("%s  %s  %-20s  %d file(s), %d folder(s)\n",
				s.ID,
				s.CreatedAt.Format("2006-01-02 15:04:05"),
				s.Source,
				s.FileCount,
				s.FolderCount,
			)
		}
		return nil
	},
}

// diff command
var diffCmd = &cobra.Command{
	Use:   "diff OLD NEW",
	Short: "Compare two snapshots",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Diff")
		if err != nil {
			return err
		}
		defer a.Close()

		diff, err := a.Diff(args[0], args[1])
		if err != nil {
			return err
		}

		if diff.Empty() {
			fmt.Println("Snapshots are identical.")
			return nil
		}

		for _, name := range diff.RemovedFolders {
			fmt.Printf("- %s/\n", name)
		}
		for _, name := range diff.AddedFolders {
			fmt.Printf("+ %s/\n", name)
		}
		for _, f := range diff.RemovedFiles {
			fmt.Printf("- %s (%d bytes)\n", f.Name, f.SizeBytes)
		}
		for _, f := range diff.AddedFiles {
			fmt.Printf("+ %s (%d bytes)\n", f.Name, f.SizeBytes)
		}
		for _, c := range diff.ResizedFiles {
			fmt.Printf("~ %s (%d -> %d bytes)\n", c.Name, c.OldSize, c.NewSize)
		}
		return nil
	},
}

// export command
var exportCmd = &cobra.Command{
	Use:   "export SNAPSHOT",
	Short: "Export a snapshot as a TOML document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		encrypt, _ := cmd.Flags().GetBool("encrypt")
		outPath, _ := cmd.Flags().GetString("output")

		a, err := newApp("ExportSnapshot")
		if err != nil {
			return err
		}
		defer a.Close()

		var w io.Writer = os.Stdout
		if outPath != "" {
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer f.Close()
			w = f
		}

		return a.ExportSnapshot(args[0], w, encrypt)
	},
}

// decrypt command
var decryptCmd = &cobra.Command{
	Use:   "decrypt FILE",
	Short: "Decrypt an encrypted export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath, _ := cmd.Flags().GetString("output")

		a, err := newApp("DecryptExport")
		if err != nil {
			return err
		}
		defer a.Close()

		passphrase, err := readPassphrase("Passphrase: ")
		if err != nil {
			return err
		}

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening %s: %w", args[0], err)
		}
		defer f.Close()

		var w io.Writer = os.Stdout
		if outPath != "" {
			out, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer out.Close()
			w = out
		}

		return a.DecryptExport(f, w, passphrase)
	},
}

// keys command
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage export encryption keys",
}

var keysInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate the export key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("SetupKeys")
		if err != nil {
			return err
		}
		defer a.Close()

		passphrase, err := readPassphrase("Passphrase: ")
		if err != nil {
			return err
		}
		confirm, err := readPassphrase("Confirm passphrase: ")
		if err != nil {
			return err
		}
		if passphrase != confirm {
			return fmt.Errorf("passphrases do not match")
		}

		if err := a.SetupKeys(passphrase); err != nil {
			return err
		}

		fmt.Println("Export keys generated.")
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// capture subcommands
	captureCmd.AddCommand(capturePutCmd)
	captureCmd.AddCommand(captureListCmd)

	// keys subcommands
	keysCmd.AddCommand(keysInitCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().BoolP("save", "s", false, "Persist the parsed listing as a snapshot")
	rootCmd.AddCommand(captureCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of snapshots to show")
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().BoolP("encrypt", "e", false, "Encrypt the export with the configured public key")
	exportCmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")
	rootCmd.AddCommand(decryptCmd)
	decryptCmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")
	rootCmd.AddCommand(keysCmd)
}
