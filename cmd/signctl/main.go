// signctl mints signed paths for the gateway's path-auth filter.
//
// Usage:
//
//	signctl -secret WASM_rocks! -prefix /downloads/ videos/wasm-tutorial.mp4
//
// prints /downloads/ab94570897eeba7fa391edc4da08c967/videos/wasm-tutorial.mp4
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/danmuck/edgegate/internal/pathauth"
)

func main() {
	secret := flag.String("secret", "", "shared signing secret")
	prefix := flag.String("prefix", "", "protected path prefix to prepend")
	flag.Parse()

	if *secret == "" {
		fmt.Fprintln(os.Stderr, "signctl: -secret is required")
		os.Exit(2)
	}
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "signctl: at least one payload path is required")
		os.Exit(2)
	}

	for _, payload := range flag.Args() {
		if payload == "" {
			fmt.Fprintln(os.Stderr, "signctl: empty payload skipped")
			continue
		}
		checksum := pathauth.Checksum(payload, *secret)
		fmt.Printf("%s%s/%s\n", *prefix, checksum, payload)
	}
}
