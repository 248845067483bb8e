// Package conf contains the constants that are used across packages for configuring
// versions and engine limits.
package conf

import (
	"fmt"
	"time"
)

const (
	// TAIPUVERSION is the version of the taipu application.
	TAIPUVERSION = "taipu 0.1.0"
	// TAIPUVERSIONMAJORN is the major version.
	TAIPUVERSIONMAJORN = 0
	// TAIPUVERSIONMINORN is the minor version.
	TAIPUVERSIONMINORN = 1
	// TAIPUVERSIONPATCHN is the patch version.
	TAIPUVERSIONPATCHN = 0
	// INITIALTABLECAP type table column capacity at session startup.
	INITIALTABLECAP = 64
	// MAXPARSEDEPTH max nesting allowed in expressions and type annotations.
	MAXPARSEDEPTH = 200
	// MAXUNIONMEMBERS max members a union can hold before it is rejected as too complex.
	MAXUNIONMEMBERS = 100_000
	// MAXERRORS max diagnostics collected before the checker stops appending.
	MAXERRORS = 100
)

// FullVersion returns the version and copyright.
func FullVersion() string {
	return fmt.Sprintf("%v Copyright (C) %v", TAIPUVERSION, time.Now().Year())
}

// Copyright is the copyright to be written out in the CLI.
func Copyright() string {
	return fmt.Sprintf("Copyright (C) %v", time.Now().Year())
}
