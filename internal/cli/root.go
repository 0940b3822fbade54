// Copyright 2025 The fetch Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/httpmodel/fetch"
	"github.com/httpmodel/fetch/header"
	"github.com/httpmodel/fetch/request"
)

type options struct {
	method       string
	data         string
	headers      []string
	redirect     string
	maxRedirects int
	noCompress   bool
	timeout      time.Duration
	maxSize      int64
	include      bool
}

var opts options

var rootCmd = &cobra.Command{
	Use:   "fetch [flags] URL",
	Short: "Issue an HTTP request from the command line",
	Long: `fetch - issue an HTTP request from the command line

Builds a normalized request from the flags below, executes it honoring
the selected redirect policy, timeout and response size limit, and
writes the response body to standard output.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, args[0])
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().StringVarP(&opts.method, "method", "X", "", "HTTP method (default GET, or POST when -d is given)")
	rootCmd.Flags().StringVarP(&opts.data, "data", "d", "", "Request body data")
	rootCmd.Flags().StringArrayVarP(&opts.headers, "header", "H", nil, "Extra header (repeatable, e.g. -H 'Accept: application/json')")
	rootCmd.Flags().StringVar(&opts.redirect, "redirect", "follow", "Redirect policy (follow, error, manual)")
	rootCmd.Flags().IntVar(&opts.maxRedirects, "max-redirects", request.DefaultFollow, "Maximum redirect hops")
	rootCmd.Flags().BoolVar(&opts.noCompress, "no-compress", false, "Do not advertise gzip/deflate acceptance")
	rootCmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Total exchange timeout (0 = unlimited)")
	rootCmd.Flags().Int64Var(&opts.maxSize, "max-size", 0, "Maximum response body bytes (0 = unlimited)")
	rootCmd.Flags().BoolVarP(&opts.include, "include", "i", false, "Include response status and headers in the output")
}

func run(cmd *cobra.Command, url string) error {
	r, err := opts.buildRequest(url)
	if err != nil {
		return err
	}
	client := &fetch.Client{}
	resp, err := client.Do(r)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if opts.include {
		fmt.Fprintln(out, resp.Status)
		for _, f := range resp.Header.Raw() {
			for _, value := range f.Values {
				fmt.Fprintf(out, "%s: %s\n", f.Name, value)
			}
		}
		fmt.Fprintln(out)
	}
	_, err = out.Write(resp.Body)
	return err
}

// buildRequest maps the command-line options onto a normalized
// request.
func (o *options) buildRequest(url string) (*request.Request, error) {
	policy, err := request.ParseRedirectPolicy(o.redirect)
	if err != nil {
		return nil, err
	}
	h, err := parseHeaderFlags(o.headers)
	if err != nil {
		return nil, err
	}
	method := o.method
	if method == "" && o.data != "" {
		method = "POST"
	}
	ropts := &request.Options{
		Method:   method,
		Header:   h,
		Redirect: policy,
		Follow:   request.Int(o.maxRedirects),
		Compress: request.Bool(!o.noCompress),
		Timeout:  o.timeout,
		Size:     o.maxSize,
	}
	if o.data != "" {
		ropts.Body = o.data
	}
	return request.New(url, ropts)
}

// parseHeaderFlags converts repeated "Name: value" flags into a header
// container.
func parseHeaderFlags(flags []string) (*header.Header, error) {
	h := header.New()
	for _, flag := range flags {
		name, value, ok := strings.Cut(flag, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, errors.Errorf("malformed header %q (want 'Name: value')", flag)
		}
		h.Append(strings.TrimSpace(name), strings.TrimSpace(value))
	}
	return h, nil
}
