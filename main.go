package main

import "ignorebtc/cmd"

func main() {
	cmd.Execute()
}
