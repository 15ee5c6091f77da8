// ltree grows procedural trees from HCL grammar profiles and renders them
// to WebP previews.
package main

import "os"

func main() {
	os.Exit(Execute())
}
