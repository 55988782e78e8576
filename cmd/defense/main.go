package main

import "github.com/richardoros/unified-defense/internal/cli"

func main() {
	cli.Execute()
}
