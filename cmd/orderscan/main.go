// orderscan - Order Confirmation Extraction Tool
//
// orderscan reads order confirmation documents and extracts order numbers,
// models, confirmation numbers and desired delivery weeks into a report.
package main

import (
	"os"

	"github.com/ccollicutt/orderscan/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
