package main

import "github.com/frahmantamala/skill-matrix/cmd"

func main() {
	cmd.Execute()
}
