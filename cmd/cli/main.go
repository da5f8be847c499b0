package main

import "github.com/tdump-analysis/cmd/cli/cmd"

func main() {
	cmd.Execute()
}
