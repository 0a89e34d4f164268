// pokedash renders and serves a dashboard of creature stats.
package main

import (
	"os"

	"github.com/hupe1980/pokedash/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
