package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "okr",
	Short: "okr link workflow tool",
	Example: `okr serve
okr context set -u <user-id> -s http://localhost:4021
okr link request -s <objective-id> -T key_result -t <kr-id> -n <note>
okr link incoming --status pending
okr link approve -l <link-id> -n <note>
okr link unlink -l <link-id> --keep-ownership
okr link get -l <link-id>`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(contextCommand)
	rootCmd.AddCommand(linkCmd)
	rootCmd.AddCommand(notificationsCmd())
	rootCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	cobra.EnableCommandSorting = false
}
