// Command stockcount keeps an inventory counting list and a customer
// registry from the terminal. Barcode scanners that type into the terminal
// feed the "count scan" command directly.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
