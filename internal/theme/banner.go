package theme

import (
	"fmt"
)

// Banner returns the CLI banner.
func Banner() string {
	const cyan = "\033[36m"
	const blue = "\033[34m"
	const yellow = "\033[33m"
	const reset = "\033[0m"

	art := "" +
		"    " + blue + "twitter-app" + reset + "\n" +
		cyan + "   ▄▄▄   ┌─┐┌─┐\n" + reset +
		cyan + "  ▐ ●▐▌  │ ││ │  a terminal client for a tiny bird site\n" + reset +
		cyan + "   ▀▀▀   └─┘└─┘\n" + reset +
		yellow + "  ────────────────────────────────\n" + reset
	return art
}

// PrintBanner prints the banner to stdout.
func PrintBanner() {
	fmt.Print(Banner())
}
