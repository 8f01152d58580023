package main

import "github.com/shtxd/clip/internal/cli"

func main() {
	cli.Execute()
}
