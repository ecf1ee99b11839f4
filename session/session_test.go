package session_test

import (
	"net"
	"strings"
	"sync"
	"testing"

	"github.com/mcproto/core/mcconfig"
	"github.com/mcproto/core/mcconn"
	"github.com/mcproto/core/session"
)

func newPair(t *testing.T, cfg mcconfig.Config) (*session.ServerSession, *session.ClientSession) {
	t.Helper()
	clientNet, serverNet := net.Pipe()
	serverConn := mcconn.New(serverNet, nil)
	clientConn := mcconn.New(clientNet, nil)
	server := session.NewServerSession(serverConn, cfg, nil)
	client := session.NewClientSession(clientConn, cfg, nil)
	return server, client
}

func TestStatusExchange(t *testing.T) {
	cfg := mcconfig.New(mcconfig.WithCompressionThreshold(-1))
	server, client := newPair(t, cfg)

	var wg sync.WaitGroup
	wg.Add(1)
	var serverErr error
	go func() {
		defer wg.Done()
		serverErr = server.Run(nil)
	}()

	jsonBody, echoed, err := client.FetchStatus("localhost", 25565, 0x0102030405060708)
	wg.Wait()

	if err != nil {
		t.Fatalf("FetchStatus: %v", err)
	}
	if serverErr != nil {
		t.Fatalf("server.Run: %v", serverErr)
	}
	if echoed != 0x0102030405060708 {
		t.Fatalf("echoed payload = %x, want %x", echoed, 0x0102030405060708)
	}
	if !strings.Contains(jsonBody, "1.20.1") {
		t.Fatalf("status JSON = %q, missing version string", jsonBody)
	}
}

func TestLoginWithoutCompression(t *testing.T) {
	cfg := mcconfig.New(mcconfig.WithCompressionThreshold(-1))
	server, client := newPair(t, cfg)

	var wg sync.WaitGroup
	wg.Add(1)
	var serverErr error
	go func() {
		defer wg.Done()
		serverErr = server.Run(nil)
	}()

	id, err := client.Login("localhost", 25565, "Steve", nil)
	wg.Wait()

	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if serverErr != nil {
		t.Fatalf("server.Run: %v", serverErr)
	}
	if id.String() == "" {
		t.Fatalf("expected a derived offline-mode UUID")
	}
}

func TestLoginAppliesCompressionBeforeLoginSuccess(t *testing.T) {
	cfg := mcconfig.New(mcconfig.WithCompressionThreshold(8))
	server, client := newPair(t, cfg)

	var wg sync.WaitGroup
	wg.Add(1)
	var serverErr error
	go func() {
		defer wg.Done()
		serverErr = server.Run(nil)
	}()

	id, err := client.Login("localhost", 25565, "Alexxxxxxxxxxx", nil)
	wg.Wait()

	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if serverErr != nil {
		t.Fatalf("server.Run: %v", serverErr)
	}
	if id.String() == "" {
		t.Fatalf("expected a derived offline-mode UUID")
	}
}

func TestProtocolVersionMismatchDisconnects(t *testing.T) {
	cfg := mcconfig.New(mcconfig.WithProtocolVersion(999))
	clientCfg := mcconfig.New(mcconfig.WithProtocolVersion(763))
	clientNet, serverNet := net.Pipe()
	serverConn := mcconn.New(serverNet, nil)
	clientConn := mcconn.New(clientNet, nil)
	server := session.NewServerSession(serverConn, cfg, nil)
	client := session.NewClientSession(clientConn, clientCfg, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	var serverErr error
	go func() {
		defer wg.Done()
		serverErr = server.Run(nil)
	}()

	_, err := client.Login("localhost", 25565, "Steve", nil)
	wg.Wait()

	if err == nil {
		t.Fatalf("expected Login to fail on protocol version mismatch")
	}
	if serverErr == nil {
		t.Fatalf("expected server.Run to report the mismatch too")
	}
}

func TestOfflineUUIDIsDeterministic(t *testing.T) {
	cfg := mcconfig.New(mcconfig.WithCompressionThreshold(-1))

	runLogin := func(name string) string {
		server, client := newPair(t, cfg)
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = server.Run(nil)
		}()
		id, err := client.Login("localhost", 25565, name, nil)
		wg.Wait()
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		return id.String()
	}

	first := runLogin("Notch")
	second := runLogin("Notch")
	if first != second {
		t.Fatalf("offline UUID not deterministic: %q != %q", first, second)
	}
	third := runLogin("Jeb_")
	if first == third {
		t.Fatalf("offline UUID collided across distinct names")
	}
}
