// Command server boots the territoryd game server: HTTP/WebSocket
// surface, Name Store migrations, Lobby Table and Game Loop.
package main

import (
	"github.com/spf13/cobra"
)

func main() {
	cobra.CheckErr(newRootCmd().Execute())
}
