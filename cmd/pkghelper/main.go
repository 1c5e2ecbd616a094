// pkghelper - package cache helper backed by a directory store.
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"lwnet/pkghelper"
)

func main() {
	fs := flag.NewFlagSet("pkghelper", flag.ContinueOnError)

	cacheDir := fs.String("cache-dir", defaultCacheDir(), "Package cache directory")
	if err := fs.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "pkghelper: %v\n", err)
		os.Exit(1)
	}

	store := pkghelper.NewDirStore(*cacheDir)
	os.Exit(pkghelper.Execute(fs.Args(), store, os.Stdout, os.Stderr))
}

func defaultCacheDir() string {
	if dir := os.Getenv("PKGHELPER_CACHE"); dir != "" {
		return dir
	}
	return "/var/cache/pkghelper"
}
