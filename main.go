package main

import "github.com/kamusis/triage/cmd"

func main() {
	cmd.Execute()
}
