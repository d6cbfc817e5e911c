package main

import "github.com/denysvitali/meshscan/cmd"

func main() {
	cmd.Execute()
}
