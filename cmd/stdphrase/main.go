package main

import "stdphrase/internal/cli"

func main() {
	cli.Execute()
}
