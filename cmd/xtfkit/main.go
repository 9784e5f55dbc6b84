/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/oceanscan/xtfkit/cmd/xtfkit/cmd"

func main() {
	cmd.Execute()
}
