package main

import "storeops/cmd/client/cmd"

func main() {
	cmd.Execute()
}
