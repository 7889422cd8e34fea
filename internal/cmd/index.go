package cmd

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runger/rpick/internal/catalog"
	"github.com/runger/rpick/internal/config"
	"github.com/runger/rpick/internal/source"
)

// putBatchSize bounds memory while walking large trees; entries are
// flushed to the catalog in transactions of this size.
const putBatchSize = 500

var indexOpts struct {
	db         string
	configPath string
}

var indexCmd = &cobra.Command{
	Use:   "index [dir]",
	Short: "Ingest entries into the catalog",
	Long: `Ingest entries into the catalog database.

With a directory argument, walks the tree and catalogs every regular
file. Without one, reads listing lines from stdin (name, or name and
detail separated by a tab; the detail is stored as the path).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringVar(&indexOpts.db, "db", "", "catalog database path (default from config)")
	indexCmd.Flags().StringVar(&indexOpts.configPath, "config", "", "config file path")
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(indexOpts.configPath)
	if err != nil {
		return err
	}

	dbPath := indexOpts.db
	if dbPath == "" {
		dbPath = cfg.Picker.CatalogDB
	}
	if dbPath == "" {
		dbPath = config.DefaultPaths().CatalogFile()
	}

	store, err := catalog.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	var ingested int64
	if len(args) == 1 {
		ingested, err = indexDir(ctx, store, args[0])
	} else {
		ingested, err = indexReader(ctx, store, os.Stdin)
	}
	if err != nil {
		return err
	}

	total, err := store.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "indexed %d entries (%d total)\n", ingested, total)
	return nil
}

// indexDir walks root and catalogs every regular file.
func indexDir(ctx context.Context, store *catalog.Store, root string) (int64, error) {
	var (
		batch []catalog.Entry
		total int64
	)

	flush := func() error {
		if err := store.Put(ctx, batch); err != nil {
			return err
		}
		total += int64(len(batch))
		batch = batch[:0]
		return nil
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		batch = append(batch, catalog.Entry{
			Name:  d.Name(),
			Path:  path,
			Size:  info.Size(),
			MTime: info.ModTime().Unix(),
		})
		if len(batch) >= putBatchSize {
			return flush()
		}
		return nil
	})
	if err != nil {
		return total, fmt.Errorf("walk %s: %w", root, err)
	}
	return total, flush()
}

// indexReader catalogs listing lines from r. The line's detail becomes
// the entry path.
func indexReader(ctx context.Context, store *catalog.Store, r io.Reader) (int64, error) {
	lines, err := source.ReadEntries(r)
	if err != nil {
		return 0, err
	}

	var (
		batch []catalog.Entry
		total int64
	)
	for _, ln := range lines {
		name := strings.TrimSpace(ln.Name)
		if name == "" {
			continue
		}
		batch = append(batch, catalog.Entry{Name: name, Path: ln.Detail})
		if len(batch) >= putBatchSize {
			if err := store.Put(ctx, batch); err != nil {
				return total, err
			}
			total += int64(len(batch))
			batch = batch[:0]
		}
	}
	if err := store.Put(ctx, batch); err != nil {
		return total, err
	}
	return total + int64(len(batch)), nil
}
