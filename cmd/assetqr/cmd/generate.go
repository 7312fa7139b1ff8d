package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"asset-qr/internal/domain"
	"asset-qr/internal/render"
	"asset-qr/internal/service"

	"github.com/spf13/cobra"
)

type generateOptions struct {
	form       domain.AssetForm
	useStore   bool
	noFallback bool
	viewerURL  string
	qrFile     string
	size       int
	jsonOut    bool
}

func newGenerateCmd(a *app) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a QR code URL for a laptop asset",
		Long: `Validate the asset details and build the URL a QR code points at.

By default the record is embedded in the URL. With --store it is saved to the
record store and the URL carries only its id; when the store is unreachable
the code falls back to an inline URL unless --no-fallback is set.

Example:
  assetqr generate --laptop "Dell XPS 13" --serial ABCD1234 --employee-id E-42 \
    --contact "+1 555 123 4567" --email a@b.com --support 5550001111 \
    --company-link https://example.com --qr asset.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, a, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.form.LaptopDetails, "laptop", "", "Laptop model and details")
	f.StringVar(&opts.form.SerialNumber, "serial", "", "Serial number (at least 4 characters)")
	f.StringVar(&opts.form.EmployeeID, "employee-id", "", "Employee ID")
	f.StringVar(&opts.form.ContactNumber, "contact", "", "Employee contact number")
	f.StringVar(&opts.form.EmployeeEmail, "email", "", "Employee email")
	f.StringVar(&opts.form.SupportContact, "support", "", "Support contact number")
	f.StringVar(&opts.form.CompanyLink, "company-link", "", "Company URL")
	f.BoolVar(&opts.useStore, "store", false, "Save the record to the record store and encode a reference")
	f.BoolVar(&opts.noFallback, "no-fallback", false, "Fail instead of falling back to an inline code")
	f.StringVar(&opts.viewerURL, "viewer-url", "", "Viewer page URL (default: PUBLIC_BASE_URL + VIEWER_PATH)")
	f.StringVarP(&opts.qrFile, "qr", "o", "", "Write the QR code PNG to this file")
	f.IntVar(&opts.size, "size", 0, "QR code size in pixels (default: QR_SIZE)")
	f.BoolVar(&opts.jsonOut, "json", false, "Print the result as JSON")

	return cmd
}

type generateResult struct {
	URL            string              `json:"url"`
	Mode           string              `json:"mode"`
	ID             string              `json:"id,omitempty"`
	Record         *domain.AssetRecord `json:"record"`
	FallbackReason string              `json:"fallback_reason,omitempty"`
	QRFile         string              `json:"qr_file,omitempty"`
}

func runGenerate(cmd *cobra.Command, a *app, opts *generateOptions) error {
	viewerURL := opts.viewerURL
	if viewerURL == "" {
		viewerURL = a.cfg.App.ViewerURL()
	}
	fallback := a.cfg.App.FallbackInline && !opts.noFallback

	ctx, cancel := withTimeout(cmd, a)
	defer cancel()

	generator := service.NewGenerator(a.store, viewerURL, fallback, a.logger.Logger)
	session, err := generator.Generate(ctx, domain.NewAssetRecord(opts.form), opts.useStore)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			for _, f := range vErr.Fields {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", f.Field, f.Message)
			}
		}
		return err
	}

	result := generateResult{
		URL:    session.URL,
		Mode:   string(session.Mode),
		ID:     session.ID,
		Record: session.Record,
	}
	if session.FallbackErr != nil {
		result.FallbackReason = session.FallbackErr.Error()
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: record store failed, generated an inline code instead: %v\n", session.FallbackErr)
	}

	if opts.qrFile != "" {
		size := opts.size
		if size <= 0 {
			size = a.cfg.App.QRSize
		}
		png, err := render.QRCodePNG(session.URL, size)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.qrFile, png, 0644); err != nil {
			return fmt.Errorf("failed to write QR code: %w", err)
		}
		result.QRFile = opts.qrFile
	}

	if opts.jsonOut {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printField(cmd, "URL", result.URL)
	printField(cmd, "Mode", result.Mode)
	if result.ID != "" {
		printField(cmd, "ID", result.ID)
	}
	if result.QRFile != "" {
		printField(cmd, "QR code", result.QRFile)
	}
	return nil
}
