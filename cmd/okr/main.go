package main

import "github.com/emrgen/okr/cmd"

func main() {
	cmd.Execute()
}
