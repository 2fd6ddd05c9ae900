//go:build integration

package integration

import (
	"net/netip"
	"testing"
)

func netipAddr(t *testing.T, s string) netip.Addr {
	t.Helper()
	addr, err := netip.ParseAddr(s)
	if err != nil {
		t.Fatal(err)
	}
	return addr
}
