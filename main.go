package main

import "slate-console/cmd"

func main() {
	cmd.Execute()
}
