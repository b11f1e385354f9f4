package main

import (
	"github.com/haierkeys/fast-note-board/cmd"
)

func main() {
	cmd.Execute()
}
