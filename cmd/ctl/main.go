package main

import "github.com/dgnsrekt/apisync/internal/cli"

func main() {
	cli.Execute()
}
