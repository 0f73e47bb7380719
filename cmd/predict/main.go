package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"factoryguard/console/internal/config"
	"factoryguard/console/internal/predict"
	"factoryguard/console/internal/render"
)

// errPredictionFailed marks a run whose error text was already printed.
var errPredictionFailed = errors.New("prediction failed")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	cmd := newRootCmd(cfg.Predict)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, errPredictionFailed) {
			return 1
		}
		fmt.Fprintln(stderr, err)
		return 2
	}
	return 0
}

func newRootCmd(defaults predict.Config) *cobra.Command {
	var (
		endpoint string
		timeout  time.Duration
		asJSON   bool
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:   "predict [name=value...]",
		Short: "Send one feature set to the prediction service and print the result",
		Long: `Send one feature set to the prediction service and print the result.

Every value is read the way the form reads it: the numeric prefix counts and
anything else is sent as null.

Example: predict --url http://localhost:5000/predict vibration=0.42 temperature=71.5`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.WarnLevel)
			}

			form, err := parseAssignments(args)
			if err != nil {
				return err
			}
			client, err := predict.NewClient(predict.Config{URL: endpoint, Timeout: timeout})
			if err != nil {
				return err
			}

			req := predict.BuildRequest(form)
			logrus.WithFields(logrus.Fields{
				"url":      client.URL(),
				"features": len(req),
			}).Debug("sending prediction request")

			start := time.Now()
			outcome := client.Predict(cmd.Context(), req)
			logrus.WithField("duration", time.Since(start)).Debug("prediction finished")

			out := cmd.OutOrStdout()
			if !outcome.OK() {
				fmt.Fprintln(out, render.Failure(outcome.Message()).Text())
				return errPredictionFailed
			}

			view := render.Results(outcome.Response)
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(view)
			}
			for _, line := range view.Lines() {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&endpoint, "url", defaults.URL, "Prediction endpoint (env PREDICT_URL)")
	cmd.Flags().DurationVar(&timeout, "timeout", defaults.Timeout, "Request timeout, 0 waits indefinitely")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the rendered view as JSON")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log the request")

	return cmd
}

// parseAssignments turns name=value arguments into form values.
func parseAssignments(args []string) (url.Values, error) {
	form := url.Values{}
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("expected name=value, got %q", arg)
		}
		form.Add(name, value)
	}
	return form, nil
}
