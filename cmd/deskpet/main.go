package main

import "github.com/xvierd/desk-pet/cmd"

func main() {
	cmd.Execute()
}
