package main

import "github.com/pentasign/pentasign-sdk/internal/cli"

func main() {
	cli.Execute()
}
