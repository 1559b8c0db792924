package main

import "github.com/jsphweid/chordmelody/cmd"

func main() {
	cmd.Execute()
}
