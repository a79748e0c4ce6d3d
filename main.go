package main

import "github.com/Archit-01/CostOptimizationSimulation/cmd"

func main() {
	cmd.Execute()
}
