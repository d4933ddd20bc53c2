// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package transfer moves files to and from the SFTP imaging endpoint.
// Each operation opens its own connection; repeating an operation after a
// redelivery overwrites the same remote path, which the endpoint tolerates.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"path"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/docrelay/handoff/internal/config"
)

// ErrTransfer reports an SFTP transport failure (network, auth, path).
var ErrTransfer = errors.New("file transfer failed")

// FileTransfer is the pipeline's view of the imaging endpoint's file system.
type FileTransfer interface {
	Upload(ctx context.Context, content io.Reader, remotePath string) error
	Download(ctx context.Context, remotePath string) ([]byte, error)
	Rename(ctx context.Context, oldPath, newPath string) error
}

// SFTPClient implements FileTransfer over SSH/SFTP.
type SFTPClient struct {
	addr    string
	sshCfg  *ssh.ClientConfig
	timeout time.Duration
}

// NewSFTPClient creates a client for the configured imaging endpoint.
func NewSFTPClient(cfg config.SFTPConfig, timeout time.Duration) *SFTPClient {
	return &SFTPClient{
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		sshCfg: &ssh.ClientConfig{
			User: cfg.User,
			Auth: []ssh.AuthMethod{ssh.Password(cfg.Password)},
			// The endpoint lives on the internal network; host keys are not
			// distributed to this service.
			HostKeyCallback: ssh.InsecureIgnoreHostKey(),
			Timeout:         timeout,
		},
		timeout: timeout,
	}
}

// connect dials a fresh SFTP session. The returned closer tears down both the
// SFTP session and the SSH connection.
func (c *SFTPClient) connect(ctx context.Context) (*sftp.Client, func(), error) {
	dialer := net.Dialer{Timeout: c.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return nil, nil, fmt.Errorf("dial %s: %w", c.addr, err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, c.addr, c.sshCfg)
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("ssh handshake %s: %w", c.addr, err)
	}
	sshClient := ssh.NewClient(sshConn, chans, reqs)

	client, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		return nil, nil, fmt.Errorf("open sftp session: %w", err)
	}

	closer := func() {
		client.Close()
		sshClient.Close()
	}
	return client, closer, nil
}

// Upload writes the content to the remote path, creating parent directories
// as needed and overwriting any existing file.
func (c *SFTPClient) Upload(ctx context.Context, content io.Reader, remotePath string) error {
	client, closer, err := c.connect(ctx)
	if err != nil {
		return fmt.Errorf("%w: upload %s: %v", ErrTransfer, remotePath, err)
	}
	defer closer()

	if err := client.MkdirAll(path.Dir(remotePath)); err != nil {
		return fmt.Errorf("%w: mkdir for %s: %v", ErrTransfer, remotePath, err)
	}

	f, err := client.Create(remotePath)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrTransfer, remotePath, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrTransfer, remotePath, err)
	}

	return nil
}

// Download reads the full content of the remote path.
func (c *SFTPClient) Download(ctx context.Context, remotePath string) ([]byte, error) {
	client, closer, err := c.connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: download %s: %v", ErrTransfer, remotePath, err)
	}
	defer closer()

	f, err := client.Open(remotePath)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrTransfer, remotePath, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrTransfer, remotePath, err)
	}

	return data, nil
}

// Rename moves a remote file, creating the destination directory as needed.
// Used to shift released file pairs into the archive or error location.
func (c *SFTPClient) Rename(ctx context.Context, oldPath, newPath string) error {
	client, closer, err := c.connect(ctx)
	if err != nil {
		return fmt.Errorf("%w: rename %s: %v", ErrTransfer, oldPath, err)
	}
	defer closer()

	if err := client.MkdirAll(path.Dir(newPath)); err != nil {
		return fmt.Errorf("%w: mkdir for %s: %v", ErrTransfer, newPath, err)
	}

	if err := client.PosixRename(oldPath, newPath); err != nil {
		return fmt.Errorf("%w: rename %s to %s: %v", ErrTransfer, oldPath, newPath, err)
	}

	return nil
}
