//go:build !(darwin || freebsd || linux || windows)

package onigref

import "errors"

var errNoLoader = errors.New("dynamic loading not supported on this platform")

func openLibrary(string) (uintptr, error) { return 0, errNoLoader }

func lookupSymbol(uintptr, string) (uintptr, error) { return 0, errNoLoader }
