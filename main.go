package main

import "github.com/encodeous/dvsim/cmd"

func main() {
	cmd.Execute()
}
