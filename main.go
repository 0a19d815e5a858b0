package main

import "mealprep-backend/cmd"

func main() {
	cmd.Execute()
}
