package main

import "github.com/KaramelBytes/resumekit/cmd"

func main() {
	cmd.Execute()
}
