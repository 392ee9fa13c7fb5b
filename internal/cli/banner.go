package cli

import (
	"github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"
)

func printBanner() {
	myFigure := figure.NewColorFigure("CyberGuard", "doom", "red", true)
	myFigure.Print()

	cyan := color.New(color.FgCyan)
	cyan.Println("  URL threat analysis engine v" + version)
}
