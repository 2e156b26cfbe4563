package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"correioszpl/internal/dispatch"
	"correioszpl/internal/label"
)

// requestFile is the on-disk request. Options stay raw so they can be
// decoded over the configured defaults.
type requestFile struct {
	Options json.RawMessage `json:"options"`
	Label   *label.Label    `json:"label"`
}

// printerFlags override request options from the command line.
type printerFlags struct {
	printerType string
	name        string
	address     string
	port        int
	copies      int
}

func (f *printerFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.printerType, "type", "", "Printer transport (network or spool)")
	cmd.Flags().StringVarP(&f.name, "printer", "p", "", "Spool printer name")
	cmd.Flags().StringVar(&f.address, "address", "", "Network printer address")
	cmd.Flags().IntVar(&f.port, "port", 0, "Network printer port")
	cmd.Flags().IntVar(&f.copies, "copies", 0, "Number of copies (spool only)")
}

func (f printerFlags) apply(opts *dispatch.Options) {
	if f.printerType != "" {
		opts.PrinterType = strings.ToLower(strings.TrimSpace(f.printerType))
	}
	if f.name != "" {
		opts.PrinterName = f.name
	}
	if f.address != "" {
		opts.PrinterAddress = f.address
		if f.printerType == "" {
			opts.PrinterType = dispatch.TypeNetwork
		}
	}
	if f.port > 0 {
		opts.PrinterPort = f.port
	}
	if f.copies > 0 {
		opts.Submit.Copies = f.copies
	}
}

// readRequest loads the request named by args (a path, "-" or nothing for
// stdin) and decodes its options over base.
func readRequest(cmd *cobra.Command, args []string, base dispatch.Options) (dispatch.Request, error) {
	data, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return dispatch.Request{}, err
	}

	var file requestFile
	if err := json.Unmarshal(data, &file); err != nil {
		return dispatch.Request{}, fmt.Errorf("parse request: %w", err)
	}
	opts := base
	if len(bytes.TrimSpace(file.Options)) > 0 && string(bytes.TrimSpace(file.Options)) != "null" {
		if err := json.Unmarshal(file.Options, &opts); err != nil {
			return dispatch.Request{}, fmt.Errorf("parse request options: %w", err)
		}
	}
	return dispatch.Request{Options: &opts, Label: file.Label}, nil
}

func readInput(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read request from stdin: %w", err)
		}
		if len(bytes.TrimSpace(data)) == 0 {
			return nil, errors.New("empty request; pass a JSON file or pipe one on stdin")
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read request: %w", err)
	}
	return data, nil
}
