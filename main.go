package main

import "github.com/KaramelBytes/breedlens/cmd"

func main() {
	cmd.Execute()
}
