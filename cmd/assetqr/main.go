// Command assetqr generates laptop asset QR codes and resolves scanned ones.
package main

import "asset-qr/cmd/assetqr/cmd"

func main() {
	cmd.Execute()
}
