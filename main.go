package main

import "mapper/cmd"

func main() {
	cmd.Execute()
}
