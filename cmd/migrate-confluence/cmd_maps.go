package main

import (
	"fmt"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/froboy/migrate-confluence/mapstore"
)

var mapsUsage = strings.TrimSpace(`
Inspect a persisted map store: list its tables and entry counts, or dump one
table's entries with --table.
`)

// mapsCmd represents the maps command
var mapsCmd = &cobra.Command{
	Use:   "maps STORE",
	Short: "Inspect a persisted map store",
	Long:  mapsUsage,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMaps(args[0])
	},
}

var ShowTable string

func init() {
	rootCmd.AddCommand(mapsCmd)

	mapsCmd.Flags().StringVar(&ShowTable, "table", "", "print all entries of this table instead of the summary")
}

func runMaps(location string) error {
	location, err := homedir.Expand(location)
	if err != nil {
		return fmt.Errorf("cmd: couldn't expand homedir: %w", err)
	}

	var store mapstore.Store
	if strings.HasSuffix(location, ".db") || StoreFormat == "sqlite" {
		store, err = mapstore.NewSQLiteStore(location)
		if err != nil {
			return err
		}
	} else {
		store = mapstore.NewFileStore(location)
	}
	defer store.Close()

	if err := store.Load(); err != nil {
		return err
	}
	buckets := store.Buckets()

	if ShowTable != "" {
		return printTable(buckets, ShowTable)
	}

	for _, table := range buckets.TableNames() {
		fmt.Printf("%-30s %6d entries\n", table, buckets.Len(table))
	}
	return nil
}

func printTable(buckets *mapstore.Buckets, table string) error {
	switch mapstore.Tables[table] {
	case mapstore.MultiValue:
		entries := buckets.MultiTable(table)
		if entries == nil {
			return fmt.Errorf("cmd: store has no table %q", table)
		}
		keys := maps.Keys(entries)
		slices.Sort(keys)
		for _, key := range keys {
			for _, value := range entries[key] {
				fmt.Printf("%s\t%s\n", key, value)
			}
		}
	default:
		entries := buckets.SingleTable(table)
		if entries == nil {
			return fmt.Errorf("cmd: store has no table %q", table)
		}
		keys := maps.Keys(entries)
		slices.Sort(keys)
		for _, key := range keys {
			fmt.Printf("%s\t%s\n", key, entries[key])
		}
	}
	return nil
}
