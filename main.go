package main

import "github.com/KaramelBytes/malfinder/cmd"

func main() {
	cmd.Execute()
}
