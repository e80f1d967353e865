package main

import "seed-catalog/cmd"

func main() {
	cmd.Execute()
}
