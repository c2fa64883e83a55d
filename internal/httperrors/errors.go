// Copyright (c) 2025 The authsession Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors turns transport failures talking to the auth API into
// troubleshooting output for the terminal.
package httperrors

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"

	apperrors "authsession/cli/internal/errors"
	"authsession/cli/internal/logging"

	"github.com/pterm/pterm"
)

// Category classifies a network failure.
type Category int

const (
	Generic Category = iota
	Timeout
	DNS
	ConnectionRefused
	TLS
)

// IsNetworkError reports whether err is a transport failure rather than an answer from the API.
func IsNetworkError(err error) bool {
	return apperrors.KindOf(err) == apperrors.NetworkFailed
}

// FormatNetworkError prints a troubleshooting message for err and returns it
// wrapped for the caller to propagate. baseURL names the server in the output.
func FormatNetworkError(err error, context, baseURL string) error {
	if err == nil {
		return nil
	}

	host := ExtractHostFromURL(baseURL)
	switch Classify(err) {
	case Timeout:
		showTimeoutError(context, host)
	case DNS:
		showDNSError(context, host)
	case ConnectionRefused:
		showConnectionRefusedError(context, host)
	case TLS:
		showTLSError(context)
	default:
		showGenericError(context, host, err)
	}
	return fmt.Errorf("network error: %w", err)
}

// Classify detects the kind of network failure behind err.
func Classify(err error) Category {
	switch {
	case err == nil:
		return Generic
	case isTimeoutError(err):
		return Timeout
	case isDNSError(err):
		return DNS
	case isConnectionRefusedError(err):
		return ConnectionRefused
	case isTLSError(err):
		return TLS
	default:
		return Generic
	}
}

func isTimeoutError(err error) bool {
	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded") {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

func isConnectionRefusedError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

func isTLSError(err error) bool {
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "tls") ||
		strings.Contains(errStr, "x509") ||
		strings.Contains(errStr, "certificate") ||
		strings.Contains(errStr, "handshake")
}

func showTimeoutError(context, host string) {
	pterm.Printf("⏱️  %s timed out while %s\n", host, context)
	pterm.Println()
	pterm.Println("The auth service took too long to respond. This could mean:")
	pterm.Println("  • Slow internet connection")
	pterm.Println("  • The service is under heavy load")
	pterm.Println("  • A firewall is dropping the connection")
	pterm.Println()
	pterm.Println("Try again, or raise timeout_seconds in the config file.")
	pterm.Println()
}

func showDNSError(context, host string) {
	pterm.Printf("🌐 Cannot resolve %s while %s\n", host, context)
	pterm.Println()
	pterm.Println("Please check:")
	pterm.Println("  • Your internet connection is working")
	pterm.Println("  • base_url in the config file (or --base-url) is spelled correctly")
	pterm.Println()
}

func showConnectionRefusedError(context, host string) {
	pterm.Printf("🚫 %s refused the connection while %s\n", host, context)
	pterm.Println()
	pterm.Println("The auth service is not accepting connections. This could mean:")
	pterm.Println("  • The service is down")
	pterm.Println("  • Wrong host or port in base_url")
	pterm.Println()
}

func showTLSError(context string) {
	pterm.Printf("🔒 Secure connection failed while %s\n", context)
	pterm.Println()
	pterm.Println("Cannot establish an HTTPS connection. Check:")
	pterm.Println("  • Your system date and time")
	pterm.Println("  • Proxy settings that intercept HTTPS")
	pterm.Println()
}

func showGenericError(context, host string, err error) {
	pterm.Printf("❌ Cannot reach %s while %s\n", host, context)
	pterm.Println()

	details := logging.Mask(err.Error())
	if len(details) > 100 {
		details = details[:100] + "..."
	}
	pterm.Debug.Printf("Technical details: %s\n", details)
	pterm.Println()
}

// ExtractHostFromURL extracts the hostname from a URL for error messages.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "the auth service"
	}
	return u.Host
}
