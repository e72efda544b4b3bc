package antivirus

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

// chunkSize stays well under clamd's default StreamMaxLength.
const chunkSize = 64 << 10

// ClamAVScanner streams files to a clamd daemon with zINSTREAM.
type ClamAVScanner struct {
	address string // "host:port" or a unix socket path
	timeout time.Duration
}

var _ Scanner = (*ClamAVScanner)(nil)

// NewClamAVScanner returns a scanner for address, e.g. "localhost:3310" or
// "/var/run/clamav/clamd.sock". A zero timeout means 30 seconds.
func NewClamAVScanner(address string, timeout time.Duration) *ClamAVScanner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ClamAVScanner{address: address, timeout: timeout}
}

func (c *ClamAVScanner) Name() string {
	return "clamav"
}

func (c *ClamAVScanner) dial(ctx context.Context) (net.Conn, error) {
	network := "tcp"
	if strings.HasPrefix(c.address, "/") {
		network = "unix"
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, network, c.address)
	if err != nil {
		return nil, err
	}
	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)
	return conn, nil
}

// Ping checks that clamd answers PONG.
func (c *ClamAVScanner) Ping(ctx context.Context) error {
	conn, err := c.dial(ctx)
	if err != nil {
		return fmt.Errorf("connect to clamd: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("zPING\x00")); err != nil {
		return fmt.Errorf("send ping: %w", err)
	}
	reply, err := readReply(conn)
	if err != nil {
		return err
	}
	if reply != "PONG" {
		return fmt.Errorf("unexpected clamd reply: %q", reply)
	}
	return nil
}

// Scan sends data in length-prefixed chunks followed by a zero-length
// terminator and parses the verdict:
//
//	stream: OK
//	stream: Eicar-Signature FOUND
//	stream: <reason> ERROR
func (c *ClamAVScanner) Scan(ctx context.Context, filename string, data io.Reader) ScanResult {
	result := ScanResult{ScannerName: c.Name()}
	fail := func(format string, err error) ScanResult {
		result.Infected = true
		result.Error = fmt.Errorf(format, err)
		return result
	}

	conn, err := c.dial(ctx)
	if err != nil {
		return fail("connect to clamd: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("zINSTREAM\x00")); err != nil {
		return fail("send command: %w", err)
	}

	w := bufio.NewWriter(conn)
	buf := make([]byte, chunkSize)
	var size [4]byte
	for {
		n, readErr := data.Read(buf)
		if n > 0 {
			binary.BigEndian.PutUint32(size[:], uint32(n))
			if _, err := w.Write(size[:]); err != nil {
				return fail("send chunk: %w", err)
			}
			if _, err := w.Write(buf[:n]); err != nil {
				return fail("send chunk: %w", err)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return fail("read "+filename+": %w", readErr)
		}
	}
	binary.BigEndian.PutUint32(size[:], 0)
	if _, err := w.Write(size[:]); err != nil {
		return fail("send terminator: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fail("send chunk: %w", err)
	}

	reply, err := readReply(conn)
	if err != nil {
		return fail("%w", err)
	}

	verdict := strings.TrimSpace(strings.TrimPrefix(reply, "stream:"))
	switch {
	case strings.HasSuffix(verdict, "FOUND"):
		result.Infected = true
		result.ThreatName = strings.TrimSpace(strings.TrimSuffix(verdict, "FOUND"))
	case strings.HasSuffix(verdict, "ERROR"):
		result.Infected = true
		result.Error = fmt.Errorf("scan error: %s", verdict)
	case verdict != "OK":
		result.Infected = true
		result.Error = fmt.Errorf("unexpected clamd reply: %q", reply)
	}
	return result
}

// readReply reads one NUL-terminated clamd answer.
func readReply(conn net.Conn) (string, error) {
	reply, err := bufio.NewReader(conn).ReadString(0)
	if err != nil && !(err == io.EOF && reply != "") {
		return "", fmt.Errorf("read clamd reply: %w", err)
	}
	return strings.TrimSpace(strings.TrimRight(reply, "\x00")), nil
}
