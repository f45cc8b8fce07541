package main

import "diggercli/digger/cmd"

func main() {
	cmd.Execute()
}
