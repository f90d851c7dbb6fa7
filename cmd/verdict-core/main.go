// verdict-core is the case analysis CLI: analyze runs the full pipeline,
// the remaining commands run single stages.
//
// Usage:
//
//	verdict-core analyze --title=<title> [--statement=<text>] [--fir=<text>] [--file=<path>]...
//	verdict-core classify --text=<text|@path>
//	verdict-core sections --domain=<domain> --issue=<issue>
//	verdict-core evidence --text=<text|@path>
//	verdict-core report --markdown=@path --case-id=<id> [--title=<title>]
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
