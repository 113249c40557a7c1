package main

import "github.com/vietddude/blockpulse/internal/cli"

func main() {
	cli.Execute()
}
