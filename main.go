package main

import "github.com/admybrand/adpulse/cmd"

func main() {
	cmd.Execute()
}
