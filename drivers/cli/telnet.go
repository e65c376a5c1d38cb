package cli

import (
	"bufio"
	"context"
	"net"
	"sync"
	"time"

	expect "github.com/google/goexpect"
	"github.com/nanoncore/olt-gateway/types"
)

// Telnet protocol bytes (RFC 854).
const (
	telnetSE   = 240
	telnetSB   = 250
	telnetWILL = 251
	telnetWONT = 252
	telnetDO   = 253
	telnetDONT = 254
	telnetIAC  = 255

	telnetOptEcho = 1
	telnetOptSGA  = 3
)

// telnetConn strips IAC sequences from the inbound stream and answers
// option negotiation: the server may echo and suppress go-ahead, every
// other option is refused.
type telnetConn struct {
	conn net.Conn
	r    *bufio.Reader

	wmu       sync.Mutex
	done      chan struct{}
	closeOnce sync.Once
}

func newTelnetConn(conn net.Conn) *telnetConn {
	return &telnetConn{
		conn: conn,
		r:    bufio.NewReader(conn),
		done: make(chan struct{}),
	}
}

func (t *telnetConn) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if n > 0 && t.r.Buffered() == 0 {
			break
		}
		b, err := t.r.ReadByte()
		if err != nil {
			if n > 0 {
				return n, nil
			}
			return 0, err
		}
		if b != telnetIAC {
			p[n] = b
			n++
			continue
		}

		cmd, err := t.r.ReadByte()
		if err != nil {
			return n, err
		}
		switch cmd {
		case telnetIAC:
			p[n] = telnetIAC
			n++
		case telnetDO, telnetDONT, telnetWILL, telnetWONT:
			opt, err := t.r.ReadByte()
			if err != nil {
				return n, err
			}
			t.negotiate(cmd, opt)
		case telnetSB:
			if err := t.skipSubnegotiation(); err != nil {
				return n, err
			}
		}
	}
	return n, nil
}

func (t *telnetConn) negotiate(cmd, opt byte) {
	var reply byte
	switch cmd {
	case telnetDO:
		reply = telnetWONT
	case telnetWILL:
		if opt == telnetOptEcho || opt == telnetOptSGA {
			reply = telnetDO
		} else {
			reply = telnetDONT
		}
	default:
		return
	}
	t.wmu.Lock()
	defer t.wmu.Unlock()
	_, _ = t.conn.Write([]byte{telnetIAC, reply, opt})
}

func (t *telnetConn) skipSubnegotiation() error {
	for {
		b, err := t.r.ReadByte()
		if err != nil {
			return err
		}
		if b != telnetIAC {
			continue
		}
		next, err := t.r.ReadByte()
		if err != nil {
			return err
		}
		if next == telnetSE {
			return nil
		}
	}
}

// Write sends data; telnet line endings are CR LF.
func (t *telnetConn) Write(p []byte) (int, error) {
	t.wmu.Lock()
	defer t.wmu.Unlock()

	out := make([]byte, 0, len(p)+4)
	for _, b := range p {
		switch b {
		case '\n':
			out = append(out, '\r', '\n')
		case telnetIAC:
			out = append(out, telnetIAC, telnetIAC)
		default:
			out = append(out, b)
		}
	}
	if _, err := t.conn.Write(out); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (t *telnetConn) Close() error {
	var err error
	t.closeOnce.Do(func() {
		close(t.done)
		err = t.conn.Close()
	})
	return err
}

func (t *telnetConn) wait() error {
	<-t.done
	return nil
}

// connectTelnet dials the device and spawns a generic expect session on the
// filtered stream. Telnet has no transport authentication; the dialect's
// login script does it.
func (d *Driver) connectTelnet(ctx context.Context) error {
	vendor := string(d.desc.Vendor)
	target := d.desc.Target()

	dialer := &net.Dialer{Timeout: d.desc.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", target)
	if err != nil {
		return types.NewError(types.KindDeviceUnreachable, vendor, "dial telnet "+target, err)
	}

	tc := newTelnetConn(conn)
	d.conn = tc

	exp, _, err := expect.SpawnGeneric(&expect.GenOptions{
		In:    tc,
		Out:   tc,
		Wait:  tc.wait,
		Close: tc.Close,
		Check: func() bool { return true },
	}, d.desc.Timeout,
		expect.Verbose(false),
		expect.CheckDuration(100*time.Millisecond),
	)
	if err != nil {
		return types.NewError(types.KindDeviceUnreachable, vendor, "spawn telnet session", err)
	}

	return d.startSession(ctx, ExpectSessionConfig{Expecter: exp})
}
