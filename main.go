package main

import "LocalBoard/cmd"

func main() {
	cmd.Execute()
}
