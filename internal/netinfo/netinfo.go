// Package netinfo resolves the address a phone on the LAN should open.
package netinfo

import (
	"fmt"
	"net"
	"strings"

	"github.com/skip2/go-qrcode"
)

// probeAddr is dialed over UDP to learn the outbound interface. No packet is sent.
const probeAddr = "8.8.8.8:80"

// LocalIP returns the IP of the interface used for outbound traffic, or
// 127.0.0.1 when no route exists.
func LocalIP() string {
	conn, err := net.Dial("udp", probeAddr)
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()
	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok && addr.IP != nil {
		return addr.IP.String()
	}
	return "127.0.0.1"
}

// PageURL builds the http URL for a listen address. Wildcard or empty hosts
// are replaced with localIP.
func PageURL(listenAddr, localIP string) (string, error) {
	host, port, err := net.SplitHostPort(listenAddr)
	if err != nil {
		return "", fmt.Errorf("parse listen addr: %w", err)
	}
	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = localIP
	}
	return "http://" + net.JoinHostPort(host, port) + "/", nil
}

// QR renders url as a terminal QR code.
func QR(url string) (string, error) {
	code, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}
	return strings.TrimRight(code.ToSmallString(false), "\n"), nil
}
