package cli

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// envelope is the one line of JSON every command prints on stdout.
type envelope struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func printEnvelope(w io.Writer, env envelope) error {
	return errors.Wrap(json.NewEncoder(w).Encode(env), "cannot print result")
}

func printSuccess(w io.Writer, data interface{}) error {
	return printEnvelope(w, envelope{Status: statusSuccess, Data: data})
}

func printFailure(w io.Writer, err error) error {
	// a failure to print the failure is not worth more than the original error
	//nolint:errcheck
	printEnvelope(w, envelope{Status: statusError, Message: err.Error()})
	return err
}

// runAction builds the client shared by every command, runs action and reports its outcome. The
// returned error only signals failure to the caller; its message is already in the envelope.
func runAction(cCtx *cli.Context, action func(*segClient, *cli.Context) (interface{}, error)) error {
	client, err := newSegClient(cCtx)
	if err != nil {
		return printFailure(cCtx.App.Writer, err)
	}
	defer client.close()

	data, err := action(client, cCtx)
	if err != nil {
		client.logger.Debugw("command failed", "command", cCtx.Command.Name, "error", err)
		return printFailure(cCtx.App.Writer, err)
	}
	return printSuccess(cCtx.App.Writer, data)
}

// onUsageError reports bad flags the same way as any other failure.
func onUsageError(cCtx *cli.Context, err error, _ bool) error {
	return printFailure(cCtx.App.Writer, err)
}
