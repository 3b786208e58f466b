package main

import "github.com/beanbyte/roastcast-cli/cmd"

func main() {
	cmd.Execute()
}
