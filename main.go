package main

import "task-board.com/task-board/cmd"

func main() {
	cmd.Execute()
}
