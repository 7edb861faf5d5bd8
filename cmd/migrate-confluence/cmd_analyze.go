package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/sync/errgroup"

	"github.com/froboy/migrate-confluence/analysis"
	"github.com/froboy/migrate-confluence/confluence"
	"github.com/froboy/migrate-confluence/mapstore"
)

var analyzeUsage = strings.TrimSpace(`
Analyze Confluence export documents and write migration map stores.

Each SOURCE is either an export document or a directory to search for one.
Only files named entities.xml are considered candidates unless --all-xml is
given.  Every dump gets its own map store under the --out directory.
`)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze SOURCE [SOURCE...]",
	Short: "Derive migration lookup tables from Confluence exports",
	Long:  analyzeUsage,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		debugLog("  Workers: %d\n", Workers)
		return runAnalyze(args)
	},
}

var (
	Workers int
	AllXML  bool
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().IntVar(&Workers, "workers", 4, "number of exports to analyze concurrently")
	analyzeCmd.Flags().BoolVar(&AllXML, "all-xml", false, "consider any .xml file a candidate document, not just entities.xml")
}

func runAnalyze(sources []string) error {
	if OutputDir == "" {
		return fmt.Errorf("cmd: no output location set for map stores.  Use --out or set it in your config file")
	}
	out, err := homedir.Expand(OutputDir)
	if err != nil {
		return fmt.Errorf("cmd: couldn't expand homedir: %w", err)
	}

	candidates := []string{}
	for _, source := range sources {
		expanded, err := homedir.Expand(source)
		if err != nil {
			return fmt.Errorf("cmd: couldn't expand homedir: %w", err)
		}
		found, err := findCandidates(expanded, AllXML)
		if err != nil {
			return err
		}
		candidates = append(candidates, found...)
	}

	if len(candidates) == 0 {
		return fmt.Errorf("cmd: no candidate documents found (looking for %s)", candidateFilename)
	}
	debugLog("  found %d candidate document(s)\n", len(candidates))

	logger := newLogger()

	// Dumps are independent (one store each), so analyze them concurrently.
	// Within a dump everything stays single-threaded.
	grp := errgroup.Group{}
	grp.SetLimit(Workers)

	p := mpb.New(mpb.WithWidth(64))
	bar := p.AddBar(int64(len(candidates)),
		mpb.PrependDecorators(
			decor.Name("analyze:",
				decor.WC{C: decor.DindentRight | decor.DextraSpace}),
		),
		mpb.AppendDecorators(
			decor.CountersNoUnit("(%d/%d) "),
			decor.NewPercentage("%d"),
		),
	)

	for _, candidate := range candidates {
		candidate := candidate
		grp.Go(func() error {
			if err := analyzeOne(logger, out, candidate); err != nil {
				return fmt.Errorf("cmd: failed to analyze %s: %w", candidate, err)
			}
			bar.Increment()
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		bar.Abort(true)
		return err
	}

	// wait for our bar to complete and flush
	p.Wait()

	return nil
}

func analyzeOne(logger zerolog.Logger, out string, candidate string) error {
	label := dumpLabel(candidate)

	store, err := openStore(out, label)
	if err != nil {
		return err
	}
	defer store.Close()

	// previously persisted tables make a re-run idempotent
	if err := store.Load(); err != nil {
		return err
	}

	doc, err := confluence.LoadDocument(candidate)
	if err != nil {
		return err
	}

	analyzer := analysis.New(
		store.Buckets(),
		logger.With().Str("dump", label).Logger(),
		filepath.Dir(candidate),
	)
	if err := analyzer.Analyze(doc); err != nil {
		return err
	}

	return store.Save()
}

func openStore(out string, label string) (mapstore.Store, error) {
	switch StoreFormat {
	case "yaml":
		return mapstore.NewFileStore(filepath.Join(out, label)), nil
	case "sqlite":
		return mapstore.NewSQLiteStore(filepath.Join(out, label+".db"))
	default:
		return nil, fmt.Errorf("cmd: unknown store format %q (want yaml or sqlite)", StoreFormat)
	}
}

const candidateFilename = "entities.xml"

func findCandidates(source string, allXML bool) ([]string, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("cmd: couldn't stat %s: %w", source, err)
	}

	if !info.IsDir() {
		if isCandidate(filepath.Base(source), allXML) {
			return []string{source}, nil
		}
		return nil, fmt.Errorf("cmd: %s doesn't look like an export document", source)
	}

	found := []string{}
	err = filepath.Walk(source,
		func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return fmt.Errorf("cmd: error during file tree walk: %w", err)
			}
			if !info.IsDir() && isCandidate(info.Name(), allXML) {
				found = append(found, path)
			}
			return nil
		})
	if err != nil {
		return nil, err
	}

	return found, nil
}

func isCandidate(name string, allXML bool) bool {
	if allXML {
		return strings.HasSuffix(name, ".xml")
	}
	return name == candidateFilename
}

// dumpLabel names the store a candidate writes to, usually the directory the
// export was unpacked into.
func dumpLabel(candidate string) string {
	label := filepath.Base(filepath.Dir(candidate))
	if label == "." || label == string(filepath.Separator) {
		label = strings.TrimSuffix(filepath.Base(candidate), filepath.Ext(candidate))
	}
	return label
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if Debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}
