package dialer_test

import (
	"context"
	"net"
	"testing"

	"github.com/wireward/go-h1/internal/dialer"
	"github.com/wireward/go-h1/internal/http"
)

func TestCoreDialerStaticHosts(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	_, port, _ := net.SplitHostPort(ln.Addr().String())

	pr, err := (&http.Request{
		Method: "GET",
		URL:    "http://static.example:" + port + "/",
	}).Prepare()
	if err != nil {
		t.Fatal(err)
	}

	d := &dialer.CoreDialer{ResolveConfig: &dialer.ResolveConfig{
		StaticHosts: map[string]string{"static.example": "127.0.0.1"},
	}}
	conn, err := d.Dial(context.Background(), pr)
	if err != nil {
		t.Fatal(err)
	}
	conn.Close()
}

func TestCoreDialerUnknownScheme(t *testing.T) {
	pr, err := (&http.Request{Method: "GET", URL: "foo://example.com/"}).Prepare()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := dialer.Default.Dial(context.Background(), pr); err == nil {
		t.Error("dial with no resolvable port did not fail")
	}
}
