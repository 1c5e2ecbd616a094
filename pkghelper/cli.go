package pkghelper

import (
	"errors"
	"fmt"
	"io"
)

// Execute dispatches one subcommand against the store and returns the
// process exit code: 0 for cached/success, 1 for not-cached/failure.
// Status lines go to stdout, errors to stderr.
func Execute(args []string, store Store, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 1
	}

	switch cmd := args[0]; cmd {
	case "check":
		if len(args) < 2 {
			fmt.Fprintln(stderr, "usage: pkghelper check <package>")
			return 1
		}
		return cmdCheck(store, args[1], stdout, stderr)

	case "install":
		if len(args) < 2 {
			fmt.Fprintln(stderr, "usage: pkghelper install <package>")
			return 1
		}
		return cmdInstall(store, args[1], stdout, stderr)

	case "restore":
		if len(args) < 3 {
			fmt.Fprintln(stderr, "usage: pkghelper restore <package> <destination>")
			return 1
		}
		return cmdRestore(store, args[1], args[2], stdout, stderr)

	case "list":
		return cmdList(store, stdout, stderr)

	default:
		usage(stderr)
		return 1
	}
}

func cmdCheck(store Store, pkg string, stdout, stderr io.Writer) int {
	cached, err := store.Check(pkg)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to check %s (error %d)\n", pkg, code(err))
		return 1
	}
	if cached {
		fmt.Fprintf(stdout, "%s is cached\n", pkg)
		return 0
	}
	fmt.Fprintf(stdout, "%s is not cached\n", pkg)
	return 1
}

func cmdInstall(store Store, pkg string, stdout, stderr io.Writer) int {
	fmt.Fprintf(stdout, "Installing %s...\n", pkg)
	result, err := store.Install(pkg)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to install %s (error %d)\n", pkg, code(err))
		return 1
	}
	if result == AlreadyCached {
		fmt.Fprintf(stdout, "%s already installed (cached)\n", pkg)
	} else {
		fmt.Fprintf(stdout, "Successfully installed %s\n", pkg)
	}
	return 0
}

func cmdRestore(store Store, pkg, dest string, stdout, stderr io.Writer) int {
	if err := store.Restore(pkg, dest); err != nil {
		fmt.Fprintf(stderr, "Failed to restore %s (error %d)\n", pkg, code(err))
		return 1
	}
	fmt.Fprintf(stdout, "Restored %s to %s\n", pkg, dest)
	return 0
}

func cmdList(store Store, stdout, stderr io.Writer) int {
	names, err := store.ListCached()
	if err != nil {
		fmt.Fprintf(stderr, "Failed to list packages (error %d)\n", code(err))
		return 1
	}
	if len(names) == 0 {
		fmt.Fprintln(stdout, "No cached packages")
		return 0
	}
	fmt.Fprintln(stdout, "Cached packages:")
	for _, name := range names {
		fmt.Fprintf(stdout, "  %s\n", name)
	}
	return 0
}

func code(err error) int {
	var he *HostError
	if errors.As(err, &he) {
		return he.Code
	}
	return codeIO
}

func usage(w io.Writer) {
	fmt.Fprint(w, `Usage: pkghelper <command> [args...]

Commands:
  check <pkg>           Check if package is cached (exit 0 if cached)
  install <pkg>         Install package (downloads from CDN)
  restore <pkg> <dest>  Restore cached package to destination
  list                  List cached packages
`)
}
