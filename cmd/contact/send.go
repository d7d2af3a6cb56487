package main

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fixitdz/contact-relay/pkg/contactform"
	"github.com/fixitdz/contact-relay/pkg/httpclient"
	"github.com/fixitdz/contact-relay/pkg/locale"
	"github.com/spf13/cobra"
)

type sendOptions struct {
	endpoint string
	lang     string
	timeout  time.Duration
	fields   contactform.Fields
}

func newSendCmd() *cobra.Command {
	opts := &sendOptions{}

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Validate and submit one contact form",
		Long: `Validate the fields locally, then post them to the relay.

Exits 0 when the relay confirms delivery and 1 when the form is rejected
locally, the relay refuses it, or the relay cannot be reached.`,
		Example: `  contact send --endpoint https://fixit.dz/send_email.php \
    --name Ali --email ali@test.com --message "Need help"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.endpoint, "endpoint", "http://localhost:8080/api/v1/contact", "Relay endpoint URL")
	cmd.Flags().StringVar(&opts.lang, "lang", "ar", "Message language (ar, en, fr)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "Request timeout")
	cmd.Flags().StringVar(&opts.fields.Name, "name", "", "Your name")
	cmd.Flags().StringVar(&opts.fields.Email, "email", "", "Your email address")
	cmd.Flags().StringVar(&opts.fields.Service, "service", "", "Requested service")
	cmd.Flags().StringVar(&opts.fields.Message, "message", "", "Message or problem description")

	return cmd
}

func runSend(cmd *cobra.Command, opts *sendOptions) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	catalog := locale.NewCatalog(opts.lang)
	view := newTerminalView(cmd.OutOrStdout(), cmd.ErrOrStderr())

	submitter := contactform.NewSubmitter(contactform.Config{
		Endpoint:   opts.endpoint,
		Locale:     catalog.Default(),
		Catalog:    catalog,
		HTTPClient: httpclient.NewClientWithTimeout(opts.timeout),
	}, view)
	defer submitter.Close()

	out, err := submitter.Submit(ctx, opts.fields)
	if err != nil {
		return fmt.Errorf("%s: %w", out.State, err)
	}
	return nil
}

// terminalView prints banners; success goes to out, errors to errOut
type terminalView struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
	nextID contactform.BannerID
}

func newTerminalView(out, errOut io.Writer) *terminalView {
	return &terminalView{out: out, errOut: errOut}
}

func (v *terminalView) SetSubmitting(submitting bool, label string) {
	if !submitting {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintln(v.errOut, label)
}

func (v *terminalView) ClearMessages() {}

func (v *terminalView) ShowBanner(b contactform.Banner) contactform.BannerID {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.nextID++
	if b.Kind == contactform.BannerSuccess {
		fmt.Fprintln(v.out, b.Text)
	} else {
		fmt.Fprintln(v.errOut, b.Text)
	}
	return v.nextID
}

func (v *terminalView) FadeBanner(id contactform.BannerID) {}

func (v *terminalView) RemoveBanner(id contactform.BannerID) {}

func (v *terminalView) Focus(field contactform.Field) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintf(v.errOut, "  --%s\n", field)
}

func (v *terminalView) Reset() {}
