package integration

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"time"

	"github.com/projeto-canaa/cadastro/pkg/blob"
	"github.com/projeto-canaa/cadastro/pkg/config"
	"github.com/projeto-canaa/cadastro/pkg/db"
	"github.com/projeto-canaa/cadastro/pkg/documents"
	"github.com/projeto-canaa/cadastro/pkg/logging"
	"github.com/projeto-canaa/cadastro/pkg/server"
	"github.com/projeto-canaa/cadastro/pkg/server/endpoints"
)

// ServerMode selects how the server under test is run.
type ServerMode struct {
	Inline     bool
	BinaryPath string
}

// ServerInstance represents a running registration server
type ServerInstance struct {
	Server        *server.Server
	ServerURL     string
	listener      net.Listener
	cancel        context.CancelFunc
	serverProcess *exec.Cmd
}

// StartServer starts a server against dbURL, in-process or from the binary.
func StartServer(mode ServerMode, dbURL string) (*ServerInstance, error) {
	if mode.Inline {
		return startInlineServer(dbURL)
	}
	return startBinaryServer(mode.BinaryPath, dbURL)
}

// startInlineServer starts the server in-process on a free port with an
// in-memory blob store.
func startInlineServer(dbURL string) (*ServerInstance, error) {
	database, err := db.Connect(db.Config{URL: dbURL})
	if err != nil {
		return nil, err
	}

	cfg := config.Default()
	cfg.BlobDriver = string(blob.DriverMemory)
	logger := logging.Discard()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to create listener: %w", err)
	}
	port := fmt.Sprintf("%d", listener.Addr().(*net.TCPAddr).Port)

	s := server.NewServer(database, config.Static(cfg), documents.NewIntake(blob.NewMemory(), logger), logger, "127.0.0.1", port)
	endpoints.RegisterAll(s)

	go func() {
		_ = s.StartWithListener(listener)
	}()

	instance := &ServerInstance{
		Server:    s,
		ServerURL: "http://127.0.0.1:" + port,
		listener:  listener,
	}
	if err := waitForServer(instance.ServerURL, 10*time.Second); err != nil {
		instance.Stop()
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}
	return instance, nil
}

// startBinaryServer runs "cadastroctl server" as a child process
func startBinaryServer(binaryPath, dbURL string) (*ServerInstance, error) {
	port, err := freePort()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	// migrations were already applied by the test setup
	cmd := exec.CommandContext(ctx, binaryPath, "server", "--no-migrate", "-b", "127.0.0.1", "-p", port)
	cmd.Env = append(os.Environ(),
		"DATABASE_URL="+dbURL,
		"CANAA_BLOB_DRIVER=memory",
		"CANAA_AUDIT_ENABLED=false",
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start binary: %w", err)
	}

	instance := &ServerInstance{
		ServerURL:     "http://127.0.0.1:" + port,
		cancel:        cancel,
		serverProcess: cmd,
	}
	if err := waitForServer(instance.ServerURL, 30*time.Second); err != nil {
		instance.Stop()
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}
	return instance, nil
}

func freePort() (string, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", err
	}
	defer func() { _ = l.Close() }()
	return fmt.Sprintf("%d", l.Addr().(*net.TCPAddr).Port), nil
}

// Stop shuts the server down
func (si *ServerInstance) Stop() {
	if si.Server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = si.Server.Shutdown(ctx)
		cancel()
	}
	if si.cancel != nil {
		si.cancel()
	}
	if si.serverProcess != nil && si.serverProcess.Process != nil {
		_ = si.serverProcess.Process.Kill()
		_ = si.serverProcess.Wait()
	}
}
