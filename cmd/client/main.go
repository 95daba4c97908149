package main

import "vera/cmd/client/cmd"

func main() {
	cmd.Execute()
}
