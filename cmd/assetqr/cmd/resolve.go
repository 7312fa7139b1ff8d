package cmd

import (
	"context"
	"encoding/json"

	"asset-qr/internal/service"
	"asset-qr/internal/storeclient"

	"github.com/spf13/cobra"
)

func newResolveCmd(a *app) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "resolve <url>",
		Short: "Show the asset details behind a scanned QR code URL",
		Long: `Resolve a code URL back into its asset record.

Reference URLs (?id=) are fetched from the record store; inline URLs (?data=)
are decoded locally. When a URL carries both, the id is used.

Example:
  assetqr resolve "https://assets.example.com/view?id=1b4e28ba-2fa1-11d2-883f-0016d3cca427"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd, a)
			defer cancel()

			res, err := service.NewResolver(a.store, a.logger.Logger).Resolve(ctx, args[0])
			if err != nil {
				return err
			}

			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res.Record)
			}

			r := res.Record
			printField(cmd, "Mode", string(res.Mode))
			if res.ID != "" {
				printField(cmd, "ID", res.ID)
			}
			printField(cmd, "Laptop Model", r.LaptopDetails)
			printField(cmd, "Serial Number", r.SerialNumber)
			printField(cmd, "Employee ID", r.EmployeeID)
			printField(cmd, "Contact Number", r.ContactNumber)
			printField(cmd, "Employee Email", r.EmployeeEmail)
			printField(cmd, "Support Contact", r.SupportContact)
			printField(cmd, "Company Link", r.CompanyLink)
			printField(cmd, "Generated At", r.GeneratedAt)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the record as JSON")

	return cmd
}

// withTimeout bounds one command's store calls by the configured timeout.
// A zero or negative timeout means storeclient.DefaultTimeout.
func withTimeout(cmd *cobra.Command, a *app) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	timeout := a.cfg.Store.Timeout
	if timeout <= 0 {
		timeout = storeclient.DefaultTimeout
	}
	return context.WithTimeout(ctx, timeout)
}
