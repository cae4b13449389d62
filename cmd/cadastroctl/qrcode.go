package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/projeto-canaa/cadastro/pkg/config"
	"github.com/projeto-canaa/cadastro/pkg/lookup"
	"github.com/projeto-canaa/cadastro/pkg/protocol"
)

var qrcodeCmd = &cobra.Command{
	Use:   "qrcode <protocolo>",
	Short: "Render the lookup code of a protocol",
	Long: `Render the lookup code of a protocol as a PNG image.

The code points at <lookup_base_url>/consulta/<protocolo>, the same image the
server returns at /qrcode/<protocolo>. The database is not consulted, so
this also works for protocols that are not registered yet.

Example:
  cadastroctl qrcode CANAA-20240102030405-123
  cadastroctl qrcode CANAA-20240102030405-123 -o /tmp/qrcode.png`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}

		path, err := writeLookupCode(cfg, args[0], output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to render lookup code: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Lookup code written to %s\n", path)
	},
}

func init() {
	rootCmd.AddCommand(qrcodeCmd)
	qrcodeCmd.Flags().StringP("output", "o", "", "Output file (default qrcode_<protocolo>.png)")
}

// writeLookupCode renders the code for protocolo into path and returns the
// path written.
func writeLookupCode(cfg *config.Config, protocolo, path string) (string, error) {
	if !protocol.PatternFor(cfg.ProtocolPrefix).MatchString(protocolo) {
		fmt.Fprintf(os.Stderr, "warning: %q does not look like a protocol number\n", protocolo)
	}
	if path == "" {
		path = fmt.Sprintf("qrcode_%s.png", protocolo)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := renderLookupCode(f, cfg, protocolo); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", err
	}
	return path, f.Close()
}

func renderLookupCode(w io.Writer, cfg *config.Config, protocolo string) error {
	gen := lookup.NewGenerator(func() string { return cfg.LookupBaseURL })
	png, err := gen.PNG(protocolo)
	if err != nil {
		return err
	}
	_, err = w.Write(png)
	return err
}
