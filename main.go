package main

import "enki/cmd"

func main() {
	cmd.Execute()
}
