// Command bloomctl loads values into an auto-scaling bloom filter, serves it
// over HTTP, and measures its false positive behaviour.
package main

import "os"

func main() {
	a := &app{}
	if err := newRootCommand(a).Execute(); err != nil {
		a.exitError(err)
		os.Exit(1)
	}
}
