// cachedump inspects asset cache directory produced by export: it reads cache
// index, verifies every recorded file and reports entries which would not be
// reused. Optionally all cached images are packed into a zip archive.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"trexport/assets"
	"trexport/cmd/debug/internal/dumputil"
)

func main() {
	all := flag.Bool("all", false, "enable all dump flags (-dump, -images)")
	dump := flag.Bool("dump", false, "write cache report into <dir>-cache.txt")
	imgs := flag.Bool("images", false, "pack cached images into <dir>-images.zip")
	overwrite := flag.Bool("overwrite", false, "overwrite existing output")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: cachedump [-all] [-dump] [-images] [-overwrite] <cache dir> [outdir]\n\n")
		fmt.Fprintf(os.Stderr, "Checks asset cache against its index. Without flags report is printed to stdout.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 || flag.NArg() > 2 {
		flag.Usage()
		os.Exit(2)
	}
	if *all {
		*dump = true
		*imgs = true
	}

	defer func(startedAt time.Time) {
		fmt.Fprintf(os.Stderr, "\nExecution time: %s\n", time.Since(startedAt))
	}(time.Now())

	dir := flag.Arg(0)
	outDir := ""
	if flag.NArg() == 2 {
		outDir = flag.Arg(1)
	}

	entries, err := assets.ReadIndex(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read index of %s: %v\n", dir, err)
		os.Exit(1)
	}
	checked := dumputil.Check(dir, entries)
	report := dumputil.Report(dir, checked)

	if !*dump && !*imgs {
		fmt.Print(report)
		return
	}
	if *dump {
		if err := dumputil.WriteOutput(dir, outDir, "-cache.txt", []byte(report), *overwrite); err != nil {
			fmt.Fprintf(os.Stderr, "dump: %v\n", err)
			os.Exit(1)
		}
	}
	if *imgs {
		if err := dumputil.WriteImages(checked, dir, outDir, "-images.zip", *overwrite); err != nil {
			fmt.Fprintf(os.Stderr, "dump images: %v\n", err)
			os.Exit(1)
		}
	}
}
