// Package format renders CLI output with color.
package format

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	methodColor  = color.New(color.FgMagenta, color.Bold)
	urlColor     = color.New(color.FgBlue)
	keyColor     = color.New(color.FgCyan)
	dimColor     = color.New(color.Faint)
)

// PrintSuccess prints a green confirmation line.
func PrintSuccess(msg string) {
	successColor.Println(msg)
}

// PrintError prints a red error line to stderr.
func PrintError(msg string) {
	errorColor.Fprintln(os.Stderr, msg)
}

// PrintRequest prints one captured request line.
func PrintRequest(id, method, url, authDisplay string, ts time.Time) {
	dimColor.Printf("%s  %s  ", id, ts.Local().Format("15:04:05"))
	methodColor.Printf("%-7s ", method)
	urlColor.Print(url)
	if authDisplay != "" {
		dimColor.Printf("  [%s]", authDisplay)
	}
	fmt.Println()
}

// PrintKV prints a cyan key with a plain value.
func PrintKV(key, value string) {
	keyColor.Printf("%s: ", key)
	fmt.Println(value)
}
