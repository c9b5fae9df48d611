package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/chukul/aimsctl/internal"
	"github.com/spf13/cobra"
)

var (
	requestProfile string
	requestSecret  string
	requestService string
	requestParams  []string
	requestHeaders []string
	requestBody    string
	requestNoFail  bool
)

var requestCmd = &cobra.Command{
	Use:   "request <METHOD> <url-or-path>",
	Short: "Issue an authenticated request against the API",
	Long: `Dispatch an arbitrary HTTP call with the session token attached.
When --service is given the path is resolved against that service's base URL
from the endpoint directory; otherwise a fully qualified URL is expected.`,
	Example: `  # Absolute URL
  aimsctl request GET https://api.cloudinsight.alertlogic.com/aims/v1/12345678/account

  # Path resolved via the endpoint directory
  aimsctl request GET /12345678/account --service aims`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		method := strings.ToUpper(args[0])
		target := args[1]
		secret := mustGetSecret(requestSecret)

		sess, _, err := sessionFromStore(requestProfile, secret)
		if err != nil {
			log.Fatalf("Failed to load session for profile '%s': %v", requestProfile, err)
		}

		ctx := context.Background()

		opts := []internal.RequestOption{}
		for _, p := range requestParams {
			k, v, ok := strings.Cut(p, "=")
			if !ok {
				log.Fatalf("Invalid --param %q, expected key=value", p)
			}
			opts = append(opts, internal.WithParam(k, v))
		}
		for _, h := range requestHeaders {
			k, v, ok := strings.Cut(h, ":")
			if !ok {
				log.Fatalf("Invalid --header %q, expected Key: Value", h)
			}
			opts = append(opts, internal.WithHeader(strings.TrimSpace(k), strings.TrimSpace(v)))
		}
		if requestBody != "" {
			opts = append(opts, internal.WithBody(strings.NewReader(requestBody)))
		}

		if requestService != "" {
			c := sess.Client(requestService)
			resp, err := c.Do(ctx, method, target, opts...)
			printResponse(resp, err)
			return
		}

		resp, err := sess.Request(ctx, method, target, opts...)
		printResponse(resp, err)
	},
}

func printResponse(resp *http.Response, err error) {
	var httpErr *internal.HTTPError
	if err != nil && !errors.As(err, &httpErr) {
		log.Fatalf("Request failed: %v", err)
	}

	defer resp.Body.Close()
	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		log.Fatalf("Failed to read response body: %v", readErr)
	}

	fmt.Fprintf(os.Stderr, "HTTP %s\n", resp.Status)
	if len(body) > 0 {
		fmt.Println(string(body))
	}

	if httpErr != nil && !requestNoFail {
		os.Exit(1)
	}
}

func init() {
	requestCmd.Flags().StringVar(&requestProfile, "profile", internal.DefaultProfile, "Profile whose session signs the request")
	requestCmd.Flags().StringVar(&requestSecret, "secret", "", "Secret key for decryption")
	requestCmd.Flags().StringVar(&requestService, "service", "", "Resolve the path against this service's endpoint")
	requestCmd.Flags().StringArrayVar(&requestParams, "param", nil, "Query parameter as key=value (repeatable)")
	requestCmd.Flags().StringArrayVar(&requestHeaders, "header", nil, "Extra header as 'Key: Value' (repeatable)")
	requestCmd.Flags().StringVar(&requestBody, "body", "", "Request body")
	requestCmd.Flags().BoolVar(&requestNoFail, "no-fail", false, "Exit 0 even for non-2xx responses")
	rootCmd.AddCommand(requestCmd)
}
