package main

import "github.com/dbsmedya/docsmith/cmd/docsmith/cmd"

func main() {
	cmd.Execute()
}
