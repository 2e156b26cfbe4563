package dispatch

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"strconv"
	"time"

	"correioszpl/internal/failures"
)

// sendNetwork writes doc to a raw TCP printer and closes the connection.
// Dial and write share one deadline.
func sendNetwork(ctx context.Context, doc string, opts Options) (string, error) {
	addr := net.JoinHostPort(opts.PrinterAddress, strconv.Itoa(opts.PrinterPort))
	timeout := opts.TimeoutDuration()

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return addr, classifyNetError("connect", addr, err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		return addr, classifyNetError("set deadline", addr, err)
	}
	if _, err := io.WriteString(conn, doc); err != nil {
		return addr, classifyNetError("write", addr, err)
	}
	return addr, nil
}

func classifyNetError(op, addr string, err error) error {
	var netErr net.Error
	if (errors.As(err, &netErr) && netErr.Timeout()) ||
		errors.Is(err, os.ErrDeadlineExceeded) ||
		errors.Is(err, context.DeadlineExceeded) {
		return failures.Wrap(failures.ErrTimeout, "network", op, addr, err)
	}
	return failures.Wrap(failures.ErrConnection, "network", op, addr, err)
}
