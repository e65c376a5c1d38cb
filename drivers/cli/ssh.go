package cli

import (
	"context"
	"net"
	"strings"
	"time"

	expect "github.com/google/goexpect"
	"github.com/nanoncore/olt-gateway/types"
	"golang.org/x/crypto/ssh"
)

// legacyKeyExchanges and legacyCiphers are appended for firmware that only
// speaks pre-2015 OpenSSH algorithms (several HSGQ and Hioso builds).
var (
	legacyKeyExchanges = []string{
		"curve25519-sha256", "curve25519-sha256@libssh.org",
		"ecdh-sha2-nistp256", "ecdh-sha2-nistp384", "ecdh-sha2-nistp521",
		"diffie-hellman-group14-sha256", "diffie-hellman-group14-sha1",
		"diffie-hellman-group1-sha1", "diffie-hellman-group-exchange-sha1",
	}
	legacyCiphers = []string{
		"aes128-gcm@openssh.com", "chacha20-poly1305@openssh.com",
		"aes128-ctr", "aes192-ctr", "aes256-ctr",
		"aes128-cbc", "3des-cbc",
	}
	legacyHostKeys = []string{
		"ssh-ed25519", "ecdsa-sha2-nistp256", "rsa-sha2-256", "rsa-sha2-512", "ssh-rsa",
	}
)

func (d *Driver) sshClientConfig() *ssh.ClientConfig {
	// Some OLTs require keyboard-interactive instead of password
	keyboardInteractive := ssh.KeyboardInteractive(func(user, instruction string, questions []string, echos []bool) ([]string, error) {
		answers := make([]string, len(questions))
		for i := range questions {
			answers[i] = d.desc.Password
		}
		return answers, nil
	})

	cfg := &ssh.ClientConfig{
		User: d.desc.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(d.desc.Password),
			keyboardInteractive,
		},
		Timeout:         d.desc.Timeout,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec // OLT host keys are not provisioned
	}
	if d.dialect.LegacyAlgorithms {
		cfg.KeyExchanges = legacyKeyExchanges
		cfg.Ciphers = legacyCiphers
		cfg.HostKeyAlgorithms = legacyHostKeys
	}
	return cfg
}

// connectSSH dials, completes the SSH handshake under the descriptor
// timeout and spawns an expect session on a PTY.
func (d *Driver) connectSSH(ctx context.Context) error {
	vendor := string(d.desc.Vendor)
	target := d.desc.Target()

	dialer := &net.Dialer{Timeout: d.desc.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", target)
	if err != nil {
		return types.NewError(types.KindDeviceUnreachable, vendor, "dial ssh "+target, err)
	}

	_ = conn.SetDeadline(time.Now().Add(d.desc.Timeout))
	c, chans, reqs, err := ssh.NewClientConn(conn, target, d.sshClientConfig())
	if err != nil {
		_ = conn.Close()
		if strings.Contains(err.Error(), "unable to authenticate") {
			return types.NewError(types.KindAuthFailed, vendor, "ssh handshake", err)
		}
		return types.NewError(types.KindDeviceUnreachable, vendor, "ssh handshake", err)
	}
	_ = conn.SetDeadline(time.Time{})

	client := ssh.NewClient(c, chans, reqs)
	d.conn = client

	exp, _, err := expect.SpawnSSH(client, d.desc.Timeout,
		expect.Verbose(false),
		expect.CheckDuration(100*time.Millisecond),
	)
	if err != nil {
		return types.NewError(types.KindDeviceUnreachable, vendor, "spawn ssh shell", err)
	}

	return d.startSession(ctx, ExpectSessionConfig{Expecter: exp})
}
