// Command upload publishes a completed run bundle to Zenodo as a new version
// of an existing deposition.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/climres/h2pipeline/internal/ctxlog"
	"github.com/climres/h2pipeline/internal/zenodo"
)

func main() {
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(outW io.Writer, args []string) error {
	flagSet := flag.NewFlagSet("upload", flag.ContinueOnError)
	flagSet.SetOutput(outW)
	flagSet.Usage = func() {
		fmt.Fprint(outW, `
upload - publish a run bundle to Zenodo.

Usage:
  upload [options] BUNDLE_PATH

The ZENODO_TOKEN environment variable must hold an API token with deposit
permissions.

Options:
`)
		flagSet.PrintDefaults()
	}

	hostFlag := flagSet.String("zenodo-host", "zenodo.org", "Zenodo instance to upload to.")
	depositionFlag := flagSet.String("deposition-id", "7972657", "Deposition to create the new version from; any version works.")
	concurrencyFlag := flagSet.Int("concurrency", 4, "Number of parallel file uploads.")

	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() != 1 {
		flagSet.Usage()
		return fmt.Errorf("expected exactly one bundle path argument")
	}

	bundlePath, err := filepath.Abs(flagSet.Arg(0))
	if err != nil {
		return err
	}

	token := os.Getenv("ZENODO_TOKEN")
	if token == "" {
		return fmt.Errorf("ZENODO_TOKEN is not set")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	client := zenodo.New(*hostFlag, token)

	depositionID, err := client.NewVersion(ctx, *depositionFlag, filepath.Join(bundlePath, zenodo.MetadataFileName))
	if err != nil {
		return err
	}
	fmt.Fprintf(outW, "Deposition ID to use: %s\n", depositionID)

	bucketURL, err := client.BucketURL(ctx, depositionID)
	if err != nil {
		return err
	}
	fmt.Fprintf(outW, "Uploading to bucket: %s\n", bucketURL)

	files, err := zenodo.CollectBundleFiles(bundlePath)
	if err != nil {
		return err
	}
	fmt.Fprintf(outW, "%d files to upload\n", len(files))

	return uploadAll(ctx, client, bucketURL, bundlePath, files, *concurrencyFlag)
}

// uploadAll uploads files with a bounded number of parallel workers. The
// first error wins; remaining uploads still drain so nothing is left
// half-written.
func uploadAll(ctx context.Context, client *zenodo.Client, bucketURL, bundlePath string, files []string, concurrency int) error {
	if concurrency < 1 {
		concurrency = 1
	}

	work := make(chan string)
	errs := make(chan error, concurrency)

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for file := range work {
				if err := client.UploadFile(ctx, bucketURL, bundlePath, file); err != nil {
					select {
					case errs <- err:
					default:
					}
				}
			}
		}()
	}

	for _, file := range files {
		work <- file
	}
	close(work)
	wg.Wait()

	select {
	case err := <-errs:
		return err
	default:
		return nil
	}
}
