package main

import (
	// Embedded zone database for the business timezone in scratch images.
	_ "time/tzdata"

	"github.com/Alijeyrad/transfers_backend/cmd"
)

func main() {
	cmd.Execute()
}
