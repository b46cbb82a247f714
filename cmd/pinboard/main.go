package main // terminal pin board and pin API tooling

import "github.com/iliyamo/skate-pins/internal/cli"

func main() {
	cli.Execute()
}
