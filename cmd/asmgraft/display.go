package main

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
)

var (
	infoColorFG  = pterm.FgLightGreen
	infoStyleBG  = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	warnColorFG  = pterm.FgYellow
	warnStyleBG  = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	errorColorFG = pterm.FgRed
	errorStyleBG = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
)

// Results go to the command's stdout unstyled; everything printed here is
// diagnostic and goes to stderr.

func printError(w io.Writer, err error) {
	fmt.Fprintln(w, errorStyleBG.Sprint(" error ")+" "+errorColorFG.Sprint(err.Error()))
}

func printWarning(w io.Writer, msg string) {
	fmt.Fprintln(w, warnStyleBG.Sprint(" warn ")+" "+warnColorFG.Sprint(msg))
}

func printInfo(w io.Writer, tag, msg string) {
	fmt.Fprintln(w, infoStyleBG.Sprint(" "+tag+" ")+" "+infoColorFG.Sprint(msg))
}
