// Command pdf417scan decodes PDF417 barcodes in image files.
package main

import (
	"os"

	"github.com/ericlevine/pdf417go/cmd/pdf417scan/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
